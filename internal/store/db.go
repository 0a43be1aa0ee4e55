package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB is an open database connection. The service only checks that it is reachable.
type DB interface {
	Kind() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the database named by connString. postgres:// and postgresql:// use pgx,
// mongodb:// and mongodb+srv:// use the mongo driver. When the initial ping fails the
// connection is still returned alongside the error so it can be closed or retried.
func Open(ctx context.Context, connString string) (DB, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		p, err := openPostgres(ctx, connString)
		if p == nil {
			return nil, err
		}
		return p, err
	case "mongodb", "mongodb+srv":
		m, err := openMongo(ctx, connString)
		if m == nil {
			return nil, err
		}
		return m, err
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// Postgres wraps sql.DB using the pgx driver.
type Postgres struct {
	Client *sql.DB
}

func openPostgres(ctx context.Context, connString string) (*Postgres, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	p := &Postgres{Client: db}
	return p, p.Ping(ctx)
}

func (p *Postgres) Kind() string { return "postgres" }

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Client.PingContext(ctx)
}

func (p *Postgres) Close(context.Context) error {
	if p == nil || p.Client == nil {
		return nil
	}
	return p.Client.Close()
}

// Mongo wraps a mongo client.
type Mongo struct {
	Client *mongo.Client
}

func openMongo(ctx context.Context, connString string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(connString).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	m := &Mongo{Client: client}
	return m, m.Ping(ctx)
}

func (m *Mongo) Kind() string { return "mongodb" }

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
