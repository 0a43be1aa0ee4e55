package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "login", Body: []byte("ADMIN001")}))

	ch, err := q.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, Message{Type: "login", Body: []byte("ADMIN001")}, receive(t, ch))

	cancel()
	for range ch {
	}
}

func TestInMemoryPublishDoesNotBlockWhenFull(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, Message{Type: "a"}))
	assert.ErrorIs(t, q.Publish(ctx, Message{Type: "b"}), ErrFull)
}

func TestRedisQueueRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewRedisQueue(client, "")
	require.NoError(t, q.Publish(ctx, Message{Type: "qr_issued", Body: []byte(`{"courseId":"CS101"}`)}))

	n, err := client.LLen(ctx, "attendance:audit").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ch, err := q.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, Message{Type: "qr_issued", Body: []byte(`{"courseId":"CS101"}`)}, receive(t, ch))
}

func TestNatsQueueRoundTrip(t *testing.T) {
	opts := natstest.DefaultTestOptions
	opts.Port = -1
	srv := natstest.RunServer(&opts)
	t.Cleanup(srv.Shutdown)

	conn, err := DialNats(srv.ClientURL(), "", "queue-test")
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewNatsQueue(conn, "")
	ch, err := q.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	require.NoError(t, q.Publish(ctx, Message{Type: "login_failed", Body: []byte(`{"subject":"STU001"}`)}))
	assert.Equal(t, Message{Type: "login_failed", Body: []byte(`{"subject":"STU001"}`)}, receive(t, ch))

	cancel()
	for range ch {
	}
}

func TestOpenNatsWithToken(t *testing.T) {
	opts := natstest.DefaultTestOptions
	opts.Port = -1
	opts.Authorization = "s3cret"
	srv := natstest.RunServer(&opts)
	t.Cleanup(srv.Shutdown)

	_, _, err := Open(Options{Backend: "nats", NatsURL: srv.ClientURL(), Name: "queue-test"})
	assert.Error(t, err)

	q, closeFn, err := Open(Options{Backend: "nats", NatsURL: srv.ClientURL(), NatsToken: "s3cret", Name: "queue-test"})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &NatsQueue{}, q)
}

func TestDeserialize(t *testing.T) {
	assert.Equal(t, Message{Type: "login", Body: []byte("a|b")}, deserialize("login|a|b"))
	assert.Equal(t, Message{Body: []byte("plain")}, deserialize("plain"))
}

func TestOpen(t *testing.T) {
	q, closeFn, err := Open(Options{})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &InMemory{}, q)

	_, _, err = Open(Options{Backend: "redis"})
	assert.Error(t, err)

	_, _, err = Open(Options{Backend: "kafka"})
	assert.EqualError(t, err, `unknown queue backend "kafka"`)
}
