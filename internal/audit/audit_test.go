package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartattendance/internal/queue"
)

func TestRecordPublishes(t *testing.T) {
	q := queue.NewInMemory(4)
	rec := NewRecorder(q)

	at := time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)
	rec.Record(context.Background(), Event{Kind: KindQRIssued, Subject: "SESSION_1", At: at, Detail: map[string]string{"courseId": "CS101"}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := q.Consume(ctx)
	require.NoError(t, err)

	msg := <-ch
	assert.Equal(t, "audit", msg.Type)
	var evt Event
	require.NoError(t, json.Unmarshal(msg.Body, &evt))
	assert.Equal(t, KindQRIssued, evt.Kind)
	assert.Equal(t, "CS101", evt.Detail["courseId"])
	assert.True(t, at.Equal(evt.At))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() { rec.Record(context.Background(), Event{Kind: KindLoginFailed}) })
}

func TestRunLogsEvents(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	q := queue.NewInMemory(4)
	NewRecorder(q).Record(context.Background(), Event{Kind: KindLoginSucceeded, Subject: "FAC001"})
	require.NoError(t, q.Publish(context.Background(), queue.Message{Type: "other", Body: []byte("x")}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, q) }()

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Message == "audit" && e.Data["subject"] == "FAC001" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	for _, e := range hook.AllEntries() {
		if e.Message == "audit" {
			assert.Equal(t, log.InfoLevel, e.Level)
		}
	}
}
