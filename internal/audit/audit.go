// Package audit records login attempts and QR issuance as fire-and-forget queue messages.
package audit

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"smartattendance/internal/queue"
)

const messageType = "audit"

// Event kinds.
const (
	KindLoginSucceeded = "login_succeeded"
	KindLoginFailed    = "login_failed"
	KindQRIssued       = "qr_issued"
)

// Event is a single audit record.
type Event struct {
	Kind    string            `json:"kind"`
	Subject string            `json:"subject"`
	At      time.Time         `json:"at"`
	Detail  map[string]string `json:"detail,omitempty"`
}

// Recorder publishes events to a queue. A nil Recorder drops events.
type Recorder struct {
	q queue.Queue
}

// NewRecorder wraps q.
func NewRecorder(q queue.Queue) *Recorder {
	return &Recorder{q: q}
}

// Record publishes evt. Failures are logged and otherwise ignored.
func (r *Recorder) Record(ctx context.Context, evt Event) {
	if r == nil || r.q == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		log.Warnf("audit marshal failed: %v", err)
		return
	}
	if err := r.q.Publish(ctx, queue.Message{Type: messageType, Body: body}); err != nil {
		log.WithField("kind", evt.Kind).Warnf("audit publish failed: %v", err)
	}
}

// Run consumes audit messages and writes them to the log until ctx is done.
func Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		if msg.Type != messageType {
			continue
		}
		var evt Event
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Warnf("audit decode failed: %v", err)
			continue
		}
		entry := log.WithFields(log.Fields{
			"kind":    evt.Kind,
			"subject": evt.Subject,
			"at":      evt.At.Format(time.RFC3339),
		})
		for k, v := range evt.Detail {
			entry = entry.WithField(k, v)
		}
		entry.Info("audit")
	}
	return nil
}
