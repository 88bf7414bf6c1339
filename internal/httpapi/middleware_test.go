package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestID(RateLimit(base, 1, 1))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request = %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", second.Code)
	}
}

func TestExtractKey(t *testing.T) {
	key, err := extractKey("key abc123")
	if err != nil || key != "abc123" {
		t.Fatalf("extractKey = %q, %v", key, err)
	}
	if _, err := extractKey("KEY abc123"); err != nil {
		t.Fatalf("scheme must be case-insensitive: %v", err)
	}
	for _, bad := range []string{"", "bearer abc", "key", "key "} {
		if _, err := extractKey(bad); err == nil {
			t.Fatalf("extractKey(%q) accepted", bad)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "10.1.2.3, 192.168.0.1")
	if ip := clientIP(r); ip != "10.1.2.3" {
		t.Fatalf("ip = %q", ip)
	}
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:9999"
	if ip := clientIP(r); ip != "192.0.2.7" {
		t.Fatalf("ip = %q", ip)
	}
}
