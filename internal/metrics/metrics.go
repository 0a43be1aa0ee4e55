package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service collectors.
type Metrics struct {
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Errors        *prometheus.CounterVec
	LoginAttempts *prometheus.CounterVec
	QRIssued      prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendance_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_http_errors_total",
			Help: "HTTP responses with status >= 500 by route.",
		}, []string{"route"}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		QRIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "attendance_qr_sessions_issued_total",
			Help: "QR attendance sessions generated.",
		}),
	}
}
