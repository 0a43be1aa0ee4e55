package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"smartattendance/internal/attendance"
	"smartattendance/internal/audit"
	"smartattendance/internal/auth"
	"smartattendance/internal/campus"
	"smartattendance/internal/metrics"
	"smartattendance/internal/response"
	"smartattendance/web"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Handler serves the attendance API.
type Handler struct {
	env     string
	qr      *attendance.Service
	audit   *audit.Recorder
	metrics *metrics.Metrics
	checks  map[string]Check
	now     func() time.Time
}

// New creates a handler. rec and m may be nil.
func New(env string, qr *attendance.Service, rec *audit.Recorder, m *metrics.Metrics) *Handler {
	return &Handler{
		env:     env,
		qr:      qr,
		audit:   rec,
		metrics: m,
		checks:  map[string]Check{},
		now:     time.Now,
	}
}

// AddCheck registers a readiness check reported by /healthz.
func (h *Handler) AddCheck(name string, c Check) {
	h.checks[name] = c
}

// Routes registers the API under /api plus the readiness probe.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/healthz", h.Ready)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.POST("/auth/login", h.Login)

		api.GET("/dashboard/stats", h.DashboardStats)
		api.GET("/students", h.ListStudents)
		api.GET("/courses", h.ListCourses)

		api.GET("/attendance/records", h.ListAttendanceRecords)
		api.POST("/attendance/generate-qr", h.GenerateQR)
	}
}

// Frontend serves the embedded SPA and falls back to it for non-API paths.
func (h *Handler) Frontend(r *gin.Engine) {
	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/", serveIndex)
	r.NoRoute(func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) || c.Request.Method != http.MethodGet {
			h.NotFound(c)
			return
		}
		serveIndex(c)
	})
}

// NotFound answers unknown routes with the error envelope.
func (h *Handler) NotFound(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "Route not found")
}

func serveIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

// bindBody decodes a JSON body into dst. A missing body leaves dst at its zero value.
// It writes the error response itself and reports whether the handler should continue.
func bindBody(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	response.Error(c, http.StatusBadRequest, "Invalid request body")
	return false
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

// ---------- Health ----------

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   h.now().UTC().Format(attendance.TimestampLayout),
		"environment": h.env,
	})
}

// Ready reports every registered dependency; any failure turns the probe into a 503.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			log.WithField("dependency", name).Warnf("readiness check failed: %v", err)
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "dependencies": deps})
}

// ---------- Auth ----------

func (h *Handler) Login(c *gin.Context) {
	var creds auth.Credentials
	if !bindBody(c, &creds) {
		return
	}

	sess, err := auth.Login(creds)
	if err != nil {
		h.countLogin("failed")
		h.audit.Record(c.Request.Context(), audit.Event{
			Kind:    audit.KindLoginFailed,
			Subject: creds.UserID,
			Detail:  map[string]string{"ip": c.ClientIP()},
		})
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.countLogin("succeeded")
	h.audit.Record(c.Request.Context(), audit.Event{
		Kind:    audit.KindLoginSucceeded,
		Subject: sess.User.UserID,
		Detail:  map[string]string{"role": sess.User.Role, "ip": c.ClientIP()},
	})
	response.OK(c, http.StatusOK, sess)
}

func (h *Handler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// ---------- Dashboard and listings ----------

func (h *Handler) DashboardStats(c *gin.Context) {
	response.OK(c, http.StatusOK, campus.Stats())
}

func (h *Handler) ListStudents(c *gin.Context) {
	response.OK(c, http.StatusOK, campus.Students())
}

func (h *Handler) ListCourses(c *gin.Context) {
	response.OK(c, http.StatusOK, campus.Courses())
}

func (h *Handler) ListAttendanceRecords(c *gin.Context) {
	response.OK(c, http.StatusOK, attendance.Records())
}

// ---------- QR ----------

type generateQRRequest struct {
	CourseID string `json:"courseId"`
}

// GenerateQR issues a QR attendance session. The session is not stored anywhere.
func (h *Handler) GenerateQR(c *gin.Context) {
	var req generateQRRequest
	if !bindBody(c, &req) {
		return
	}

	sess, err := h.qr.GenerateQR(req.CourseID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.QRIssued.Inc()
	}
	h.audit.Record(c.Request.Context(), audit.Event{
		Kind:    audit.KindQRIssued,
		Subject: sess.SessionID,
		Detail:  map[string]string{"courseId": sess.CourseID, "expiry": sess.Expiry},
	})
	response.OK(c, http.StatusOK, sess)
}
