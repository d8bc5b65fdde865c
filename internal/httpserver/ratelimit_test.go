package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeCounter struct {
	hits  map[string]int64
	err   error
	calls int
}

func (f *fakeCounter) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.hits[key]++
	return f.hits[key], nil
}

func TestRateLimiterFixedWindow(t *testing.T) {
	counter := &fakeCounter{hits: map[string]int64{}}
	l := newRateLimiter(counter, 2, zap.NewNop())
	now := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	if !l.Allow(ctx, "10.0.0.1") || !l.Allow(ctx, "10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow(ctx, "10.0.0.1") {
		t.Fatal("third request in the window should be rejected")
	}
	if !l.Allow(ctx, "10.0.0.2") {
		t.Fatal("other clients have their own counter")
	}

	now = now.Add(time.Minute)
	if !l.Allow(ctx, "10.0.0.1") {
		t.Fatal("new window should reset the counter")
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	counter := &fakeCounter{err: errors.New("redis: connection refused")}
	l := newRateLimiter(counter, 1, zap.NewNop())
	for i := 0; i < 20; i++ {
		if !l.Allow(context.Background(), "10.0.0.1") {
			t.Fatal("limiter must allow requests when redis is down")
		}
	}
	if counter.calls != 5 {
		t.Fatalf("redis called %d times, breaker should stop after 5 failures", counter.calls)
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := newRateLimiter(&fakeCounter{hits: map[string]int64{}}, 1, zap.NewNop())
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/api/clients", func(c *gin.Context) { c.Status(http.StatusOK) })

	if rec := serve(r, http.MethodGet, "/api/clients", nil); rec.Code != http.StatusOK {
		t.Fatalf("first: %d", rec.Code)
	}
	rec := serve(r, http.MethodGet, "/api/clients", nil)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("second: %d %v", rec.Code, rec.Header())
	}
}
