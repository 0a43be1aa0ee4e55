package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"smartattendance/internal/attendance"
	"smartattendance/internal/audit"
	"smartattendance/internal/config"
	"smartattendance/internal/handler"
	"smartattendance/internal/httpmiddleware"
	"smartattendance/internal/logging"
	"smartattendance/internal/metrics"
	"smartattendance/internal/queue"
	"smartattendance/internal/store"
)

func main() {
	cfg := config.Load()
	logging.Setup("api", cfg.IsProduction(), cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := attendance.NewService(nil, attendance.SessionTTL)

	var redisClient *store.Redis
	if cfg.RedisAddr != "" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
	}

	var rc *redis.Client
	if redisClient != nil {
		rc = redisClient.Client
	}
	q, closeQueue, err := queue.Open(queue.Options{
		Backend:   cfg.QueueBackend,
		Redis:     rc,
		NatsURL:   cfg.NatsURL,
		NatsToken: cfg.NatsToken,
		Name:      "attendance-api",
	})
	if err != nil {
		log.Warnf("audit queue unavailable, falling back to memory: %v", err)
		q, closeQueue = queue.NewInMemory(256), func() {}
	}
	defer closeQueue()
	if mem, ok := q.(*queue.InMemory); ok {
		go func() {
			if err := audit.Run(ctx, mem); err != nil {
				log.Errorf("audit consumer stopped: %v", err)
			}
		}()
	}

	h := handler.New(cfg.Env, svc, audit.NewRecorder(q), m)

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := store.Open(dialCtx, cfg.DatabaseURL)
	dialCancel()
	if err != nil {
		log.Warnf("database not reachable: %v", err)
	} else {
		log.Infof("%s connected", db.Kind())
	}
	if db != nil {
		h.AddCheck("db", db.Ping)
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = db.Close(closeCtx)
		}()
	}
	if redisClient != nil {
		h.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Client.Ping(ctx).Err()
		})
	}

	var limiter httpmiddleware.Limiter = httpmiddleware.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	if cfg.RateLimitBackend == "redis" {
		if redisClient == nil {
			log.Warn("RATE_LIMIT_BACKEND=redis but REDIS_ADDR is empty, using memory limiter")
		} else {
			limiter = httpmiddleware.NewRedisLimiter(redisClient.Client, cfg.RateLimitMax, cfg.RateLimitWindow)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Logger("/api/health", "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics(m))
	r.Use(httpmiddleware.CORS(cfg.ClientURL))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.BodyLimit(cfg.BodyLimitBytes))
	r.Use(httpmiddleware.RateLimit(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Routes(r)
	if cfg.ServeFrontend {
		h.Frontend(r)
	} else {
		r.NoRoute(h.NotFound)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("server running on port %s (%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server exited")
	return nil
}
