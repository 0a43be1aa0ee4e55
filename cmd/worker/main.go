package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"smartattendance/internal/audit"
	"smartattendance/internal/config"
	"smartattendance/internal/logging"
	"smartattendance/internal/queue"
	"smartattendance/internal/store"
)

// Worker consumes audit events published by the API and writes them to the log.
func main() {
	cfg := config.Load()
	logging.Setup("worker", cfg.IsProduction(), cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	opts := queue.Options{
		Backend:   cfg.QueueBackend,
		NatsURL:   cfg.NatsURL,
		NatsToken: cfg.NatsToken,
		Name:      "attendance-worker",
	}
	switch cfg.QueueBackend {
	case "redis":
		if cfg.RedisAddr == "" {
			log.Fatal("QUEUE_BACKEND=redis requires REDIS_ADDR")
		}
		redisClient := store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		if !redisClient.Healthy(ctx) {
			log.Warnf("redis at %s not reachable yet, consumer will keep retrying", cfg.RedisAddr)
		}
		opts.Redis = redisClient.Client
	case "nats":
	default:
		log.Fatalf("queue backend %q is consumed inside the api process; set QUEUE_BACKEND to redis or nats", cfg.QueueBackend)
	}

	q, closeQueue, err := queue.Open(opts)
	if err != nil {
		log.Fatalf("queue init failed: %v", err)
	}
	defer closeQueue()

	log.Infof("worker started on %s backend, waiting for messages...", cfg.QueueBackend)
	if err := audit.Run(ctx, q); err != nil {
		log.Errorf("consume failed: %v", err)
		return
	}
	log.Info("worker stopped")
}
