package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConnect_UsesPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	if _, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "wrong", Timeout: time.Second}); err == nil {
		t.Fatalf("expected wrong password to fail")
	}

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "s3cret", Timeout: time.Second})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()
}

func TestConnect_FailsWhenUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestHealthCheck_TracksServer(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	check := NewProbe(client)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if !check.Available(ctx) {
		t.Fatalf("expected redis to report available")
	}

	mr.Close()
	if check.Available(ctx) {
		t.Fatalf("expected redis to report unavailable after shutdown")
	}
	if err := check.Ping(ctx); err == nil {
		t.Fatalf("expected ping error after shutdown")
	}
}
