package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the shared rate-limit counter store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// TLS enables TLS with the system roots, as managed Redis offerings require.
	TLS     bool
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	probe := NewProbe(client)
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := probe.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Probe reports whether the counter store answers within the caller's deadline.
type Probe struct {
	client *redis.Client
}

func NewProbe(client *redis.Client) *Probe {
	return &Probe{client: client}
}

func (p *Probe) Available(ctx context.Context) bool {
	return p.Ping(ctx) == nil
}

// Ping returns the ping error, for readiness reporting.
func (p *Probe) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
