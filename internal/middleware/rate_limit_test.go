package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func rateLimitedHandler(config RateLimitConfig) http.Handler {
	return RateLimitByIP(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

// TestRateLimitByIP_AllowsRequestsUnderLimit verifies requests below the limit pass through
func TestRateLimitByIP_AllowsRequestsUnderLimit(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerMinute: 10})

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Errorf("request %d failed with status %d, expected 200", i+1, recorder.Code)
		}
	}
}

// TestRateLimitByIP_Returns429AfterLimit verifies the 429 response and JSON body
func TestRateLimitByIP_Returns429AfterLimit(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerMinute: 1})

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.20:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("first request failed with status %d", recorder.Code)
	}

	req = httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.20:4000"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}
	if body := recorder.Body.String(); body != `{"error":"rate_limit_exceeded","message":"Too many requests"}` {
		t.Errorf("unexpected response body: %s", body)
	}
}

// TestRateLimitByIP_IsolatesClientBuckets verifies separate limits per client IP
func TestRateLimitByIP_IsolatesClientBuckets(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerMinute: 2})

	// Exhaust the first client's bucket
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.30:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Errorf("client A request %d failed", i+1)
		}
	}

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.30:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("client A should be rate limited, got status %d", recorder.Code)
	}

	// A different client keeps its own bucket
	req = httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.31:4000"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("client B should have an independent rate limit, got status %d", recorder.Code)
	}
}

// TestRateLimitByIP_UsesRealIPHeader verifies the limiter keys on X-Real-IP when present
func TestRateLimitByIP_UsesRealIPHeader(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerMinute: 1})

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	req.Header.Set("X-Real-IP", "203.0.113.7")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("first request failed with status %d", recorder.Code)
	}

	// Same forwarded client behind a different proxy hop shares the bucket
	req = httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	req.Header.Set("X-Real-IP", "203.0.113.7")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("expected shared bucket for forwarded client, got status %d", recorder.Code)
	}
}
