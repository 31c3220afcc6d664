package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow() bool {
	return s.allow
}

type countingLimiter struct {
	remaining int
}

func (c *countingLimiter) Allow() bool {
	if c.remaining == 0 {
		return false
	}
	c.remaining--
	return true
}

func TestRateLimitMiddlewareRejectsOnceExhausted(t *testing.T) {
	served := 0
	handler := rateLimitMiddleware(&countingLimiter{remaining: 2}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		served++
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
		codes = append(codes, rec.Code)
	}

	if served != 2 {
		t.Fatalf("expected 2 requests to reach the handler, got %d", served)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %v", codes)
	}
}

func TestWithRateLimitDisabled(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rps   float64
		burst int
	}{
		{name: "zero rps", rps: 0, burst: 5},
		{name: "zero burst", rps: 5, burst: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := routerConfig{rateLimiter: &countingLimiter{}}
			WithRateLimit(tc.rps, tc.burst)(&cfg)
			if cfg.rateLimiter != nil {
				t.Fatalf("expected limiter to be disabled")
			}
		})
	}
}

func TestWithRateLimitEnforcesBurst(t *testing.T) {
	var cfg routerConfig
	WithRateLimit(0.001, 2)(&cfg)
	if cfg.rateLimiter == nil {
		t.Fatalf("expected limiter to be installed")
	}

	if !cfg.rateLimiter.Allow() || !cfg.rateLimiter.Allow() {
		t.Fatalf("expected burst of 2 to be allowed")
	}
	if cfg.rateLimiter.Allow() {
		t.Fatalf("expected request beyond burst to be denied")
	}
}

func TestNilLimiterAdapterAllows(t *testing.T) {
	var adapter *limiterAdapter
	if !adapter.Allow() {
		t.Fatalf("expected nil adapter to allow requests")
	}
}
