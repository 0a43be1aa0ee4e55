package httpmiddleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"smartattendance/internal/metrics"
)

// Logger writes one structured line per request, skipping the given paths.
func Logger(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		if _, ok := skipped[path]; ok {
			return
		}
		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString("request_id"),
		})
		switch {
		case status >= 500:
			entry.Error(c.Errors.String())
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// Metrics records request counts and latency by matched route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.Requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		m.Duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if status >= 500 {
			m.Errors.WithLabelValues(route).Inc()
		}
	}
}
