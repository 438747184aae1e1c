package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddlewareBlocksAfterBurst(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	do := func() int {
		r := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		r.RemoteAddr = "10.1.2.3:4444"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusOK, do())

	r := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	r.RemoteAddr = "10.1.2.3:4444"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitMiddlewareKeysAreIndependent(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	do := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
}

func TestIPKeyExtractorPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:9999"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	require.Equal(t, "203.0.113.7", IPKeyExtractor(r))
}
