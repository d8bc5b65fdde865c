package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freelancedesk/internal/handler"
	"freelancedesk/internal/repository/memory"
	"freelancedesk/pkg/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(store Pinger) *gin.Engine {
	db := memory.New()
	if store == nil {
		store = db
	}
	return NewRouter(Deps{
		Stores: handler.Stores{
			Clients:  db.Clients(),
			Projects: db.Projects(),
			Tasks:    db.Tasks(),
			Payments: db.Payments(),
			Stats:    db.Stats(),
		},
		Store:  store,
		Logger: zap.NewNop(),
	})
}

func serve(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(nil)
	for _, target := range []string{"/healthz", "/health"} {
		if rec := serve(r, http.MethodGet, target, nil); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: %d", target, rec.Code)
		}
		if rec := serve(r, http.MethodHead, target, nil); rec.Code != http.StatusOK {
			t.Fatalf("HEAD %s: %d", target, rec.Code)
		}
	}
}

func TestReadyz(t *testing.T) {
	if rec := serve(newTestRouter(nil), http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready store: %d %s", rec.Code, rec.Body.String())
	}

	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	rec := serve(newTestRouter(down), http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "db_not_ready") {
		t.Fatalf("down store: %d %s", rec.Code, rec.Body.String())
	}
}

func TestTraceHeader(t *testing.T) {
	r := newTestRouter(nil)

	rec := serve(r, http.MethodGet, "/api/clients", http.Header{trace.HeaderName: {"abc123"}})
	if got := rec.Header().Get(trace.HeaderName); got != "abc123" {
		t.Fatalf("trace id not echoed: %q", got)
	}

	rec = serve(r, http.MethodGet, "/api/clients", nil)
	if got := rec.Header().Get(trace.HeaderName); len(got) != 32 {
		t.Fatalf("generated trace id %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(nil)
	serve(r, http.MethodGet, "/api/clients", nil)

	rec := serve(r, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_request_duration_seconds") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
