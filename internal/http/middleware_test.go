package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestCorrelationIDMiddleware_Generates verifies a missing correlation ID is
// generated and echoed back.
func TestCorrelationIDMiddleware_Generates(t *testing.T) {
	mw := CorrelationIDMiddleware(zap.NewNop())
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/widget/current", nil))

	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("X-Correlation-ID header not set")
	}
}

// TestCorrelationIDMiddleware_Preserves verifies a supplied correlation ID is
// kept.
func TestCorrelationIDMiddleware_Preserves(t *testing.T) {
	mw := CorrelationIDMiddleware(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/v1/widget/current", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Correlation-ID"); got != "abc-123" {
		t.Errorf("X-Correlation-ID = %q, want abc-123", got)
	}
}

// TestRateLimitMiddleware verifies denial once the bucket is exhausted and
// passthrough when disabled.
func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.0001), 1)
	mw := RateLimitMiddleware(limiter)
	h := mw(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/widget/current", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/widget/current", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}

	disabled := RateLimitMiddleware(nil)(okHandler())
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/widget/current", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("disabled limiter status = %d, want 200", rec.Code)
	}
}

// TestTimeoutMiddleware verifies the request context carries a deadline.
func TestTimeoutMiddleware(t *testing.T) {
	var hadDeadline bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
	})
	mw := TimeoutMiddleware(100 * time.Millisecond)
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/widget/current", nil))

	if !hadDeadline {
		t.Error("request context has no deadline")
	}
}

// TestMetricsMiddleware_PassesStatus verifies the status recorder does not
// alter the response.
func TestMetricsMiddleware_PassesStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	MetricsMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}

// TestGetRoute verifies route normalization for metric labels.
func TestGetRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/v1/widget/current", "/v1/widget/{variant}"},
		{"/v1/widget/forecast", "/v1/widget/{variant}"},
		{"/other", "/other"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := getRoute(r); got != tt.want {
			t.Errorf("getRoute(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
