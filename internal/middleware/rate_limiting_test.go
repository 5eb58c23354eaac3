package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/periodize/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	allowed int
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    f.allowed,
		RetryAfter: 3 * time.Second,
	}, nil
}

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name          string
		limiter       *fakeLimiter
		expectNext    bool
		expectStatus  int
		expectLimited float64
	}{
		{
			name:         "Allowed",
			limiter:      &fakeLimiter{allowed: 1},
			expectNext:   true,
			expectStatus: http.StatusOK,
		},
		{
			name:          "Limited",
			limiter:       &fakeLimiter{allowed: 0},
			expectStatus:  http.StatusTooManyRequests,
			expectLimited: 1,
		},
		{
			name:         "LimiterDown",
			limiter:      &fakeLimiter{err: errors.New("redis down")},
			expectNext:   true,
			expectStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewTestManager()
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodPost, "/users/u1/volume", nil)
			req.RemoteAddr = "83.12.53.65:2145"
			rr := httptest.NewRecorder()
			RateLimit(tc.limiter, "log-volume", 10, m)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectNext, nextCalled)
			assert.Equal(t, tc.expectStatus, rr.Code)
			assert.Equal(t, []string{"rate::log-volume::83.12.53.65"}, tc.limiter.keys)
			assert.Equal(t, tc.expectLimited, testutil.ToFloat64(m.CounterRateLimitedRequests.WithLabelValues("log-volume")))
			if tc.expectStatus == http.StatusTooManyRequests {
				assert.Equal(t, "3", rr.Header().Get("Retry-After"))
			}
		})
	}
}
