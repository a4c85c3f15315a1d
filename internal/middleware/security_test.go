package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Content-Security-Policy":   "default-src 'self'",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s: got %q, want %q", header, got, value)
		}
	}
}

func TestGlobalRateLimitBurst(t *testing.T) {
	handler := GlobalRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Within the burst, requests pass.
	allowed := 0
	var lastCode int
	for i := 0; i < globalRateLimitBurst+5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/destinations/search", nil)
		req.RemoteAddr = "203.0.113.7:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	if allowed < globalRateLimitBurst {
		t.Errorf("burst requests blocked too early: %d allowed", allowed)
	}
	if lastCode != http.StatusTooManyRequests {
		t.Errorf("limiter never engaged: last status %d", lastCode)
	}
}

func TestLoginRateLimitOnlyThrottlesLogin(t *testing.T) {
	handler := LoginRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Non-login paths are never throttled here.
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
		req.RemoteAddr = "203.0.113.8:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("non-login path throttled on request %d", i)
		}
	}

	// The login path hits the stricter limiter past its burst.
	var lastCode int
	for i := 0; i < loginRateLimitBurst+3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "203.0.113.8:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}
	if lastCode != http.StatusTooManyRequests {
		t.Errorf("login limiter never engaged: last status %d", lastCode)
	}
}
