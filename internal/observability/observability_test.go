package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/usershub/internal/actorctx"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerStampsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "hello")
	span.End()

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v, body=%s", err, buf.String())
	}

	if line["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v, want %s", line["trace_id"], span.SpanContext().TraceID())
	}
	if line["span_id"] == nil {
		t.Fatalf("expected span_id in %v", line)
	}
}

func TestLoggerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod")

	log.Debug("dropped")
	log.Info("kept")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected exactly one json line, got %q", buf.String())
	}
	if _, ok := line["trace_id"]; ok {
		t.Fatalf("did not expect trace_id without an active span")
	}
}

func TestLoggerStampsActorID(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev")

	log.InfoContext(actorctx.WithUserID(context.Background(), 42), "hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v, body=%s", err, buf.String())
	}
	if line["actor_id"] != float64(42) {
		t.Fatalf("actor_id = %v, want 42", line["actor_id"])
	}
}

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&pgconn.PgError{Code: "23505"}, "unique_violation"},
		{&pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{errors.New("constraint failed: UNIQUE constraint failed: users.email"), "unique_violation"},
		{errors.New("context deadline exceeded"), "timeout"},
		{errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		if got := ClassifyDBErr(tt.err); got != tt.want {
			t.Fatalf("ClassifyDBErr(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserveDBCountsErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("users_get", func() error { return nil })
	_ = p.ObserveDB("users_create", func() error { return &pgconn.PgError{Code: "23505"} })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users_create", "unique_violation")); got != 1 {
		t.Fatalf("unique_violation errors = %v, want 1", got)
	}

	var nilProm *Prom
	called := false
	_ = nilProm.ObserveDB("noop", func() error { called = true; return nil })
	if !called {
		t.Fatalf("nil Prom should still run fn")
	}
	nilProm.ObserveAuth("login", "ok")
}

func TestGinMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := NewProm(prometheus.NewRegistry())

	r := gin.New()
	r.Use(p.GinHandleMiddleware())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/1", nil))

	if got := testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/users/:id", "200")); got != 1 {
		t.Fatalf("requests_total = %v, want 1", got)
	}
}

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracerConfig{ServiceName: "usershub"})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		got := samplerFor(tt.ratio).Description()
		if !strings.Contains(got, "ParentBased{root:"+tt.want) {
			t.Fatalf("samplerFor(%v) = %s, want root %s", tt.ratio, got, tt.want)
		}
	}
}
