package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/periodize/internal/telemetry/metrics"
	"github.com/2beens/periodize/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit limits requests per route and client address.
// A limiter failure lets the request through, redis being down must not take the API with it.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routeName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, err := pkg.ReadUserIP(r)
			if err != nil {
				client = "unknown"
			}

			res, err := rateLimiter.Allow(
				r.Context(),
				fmt.Sprintf("rate::%s::%s", routeName, client),
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", routeName, err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.WithLabelValues(routeName).Inc()
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", res.RetryAfter.Seconds()))
			http.Error(
				w,
				fmt.Sprintf("retry after %f seconds", res.RetryAfter.Seconds()),
				http.StatusTooManyRequests,
			)
		})
	}
}
