package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Message is a unit of work passed between the API and the worker.
type Message struct {
	Type string
	Body []byte
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publish(ctx context.Context, msg Message) error
	Consume(ctx context.Context) (<-chan Message, error)
}

// ErrFull is returned by InMemory.Publish when the buffer has no room.
var ErrFull = errors.New("queue full")

// InMemory is a channel-backed queue for a single process.
type InMemory struct {
	ch chan Message
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	if size <= 0 {
		size = 64
	}
	return &InMemory{ch: make(chan Message, size)}
}

// Publish enqueues a message without blocking the caller when the buffer is full.
func (q *InMemory) Publish(ctx context.Context, msg Message) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrFull
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case msg := <-q.ch:
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "attendance:audit"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a message.
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	return q.client.LPush(ctx, q.key, serialize(msg)).Err()
}

// Consume streams messages using BRPOP.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if !errors.Is(err, redis.Nil) {
					time.Sleep(time.Second)
				}
				continue
			}
			if len(res) == 2 {
				select {
				case out <- deserialize(res[1]):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// NatsQueue publishes to and subscribes on a single NATS subject.
type NatsQueue struct {
	conn    *nats.Conn
	subject string
}

// NewNatsQueue wraps an open NATS connection.
func NewNatsQueue(conn *nats.Conn, subject string) *NatsQueue {
	if subject == "" {
		subject = "attendance.audit"
	}
	return &NatsQueue{conn: conn, subject: subject}
}

// Publish sends a message on the subject.
func (q *NatsQueue) Publish(_ context.Context, msg Message) error {
	return q.conn.Publish(q.subject, []byte(serialize(msg)))
}

// Consume subscribes to the subject until ctx is cancelled.
func (q *NatsQueue) Consume(ctx context.Context) (<-chan Message, error) {
	in := make(chan *nats.Msg, 64)
	sub, err := q.conn.ChanSubscribe(q.subject, in)
	if err != nil {
		return nil, err
	}
	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case m := <-in:
				select {
				case out <- deserialize(string(m.Data)):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// serialize stores messages as Type|Body.
func serialize(msg Message) string {
	return msg.Type + "|" + string(msg.Body)
}

func deserialize(s string) Message {
	typ, body, ok := strings.Cut(s, "|")
	if !ok {
		return Message{Body: []byte(s)}
	}
	return Message{Type: typ, Body: []byte(body)}
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend   string // memory, redis or nats
	Redis     *redis.Client
	NatsURL   string
	NatsToken string
	Name      string
}

// Open builds the queue named by opts.Backend. The returned func releases backend resources.
func Open(opts Options) (Queue, func(), error) {
	switch opts.Backend {
	case "redis":
		if opts.Redis == nil {
			return nil, nil, errors.New("redis queue requires a redis client")
		}
		return NewRedisQueue(opts.Redis, ""), func() {}, nil
	case "nats":
		conn, err := DialNats(opts.NatsURL, opts.NatsToken, opts.Name)
		if err != nil {
			return nil, nil, err
		}
		return NewNatsQueue(conn, ""), conn.Close, nil
	case "", "memory":
		return NewInMemory(256), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue backend %q", opts.Backend)
	}
}

// DialNats connects to url, authenticating with token when set.
func DialNats(url, token, name string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	opts := []nats.Option{nats.Name(name)}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	return nats.Connect(url, opts...)
}
