package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("fourth request should be rejected")
	}

	// other clients are tracked independently
	if !rl.Allow("10.0.0.2") {
		t.Error("different client should be allowed")
	}
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware(
		func(*http.Request) string { return "10.0.0.1" },
		nil,
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") != "60" {
		t.Error("rejection should carry Retry-After")
	}
}
