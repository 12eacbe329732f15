package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", clientIP(req))

	req.RemoteAddr = "10.0.0.7"
	assert.Equal(t, "10.0.0.7", clientIP(req))
}

func TestRateLimiter_BlocksAfterBurstPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, rate.Limit(0.001), 2)
	handler := rl.Limit(http.HandlerFunc(okHandler))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1:1000"))
	assert.Equal(t, http.StatusOK, send("1.1.1.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1:1002"))

	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, send("2.2.2.2:1000"))
}
