package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
	"github.com/redis/go-redis/v9"
)

// RateLimitErrorHeader is set when the limiter backend failed and the
// request was let through.
const RateLimitErrorHeader = "X-RateLimit-Error"

// WindowCounter counts hits on key within a fixed window.
type WindowCounter interface {
	// Incr adds one hit to key and returns the count in the current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements WindowCounter with INCR and EXPIRE.
type RedisCounter struct {
	client redis.Cmdable
}

// NewRedisCounter creates a RedisCounter on top of client.
func NewRedisCounter(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements WindowCounter. The window starts with the first hit.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

// RateLimiter is a fixed-window, per-client-IP limiter. It fails open: with
// no counter, or when the counter errors, requests pass.
type RateLimiter struct {
	counter     WindowCounter
	maxRequests int
	window      time.Duration
	metrics     *Metrics
}

// NewRateLimiter creates a RateLimiter. A nil counter or a maxRequests of
// zero disables limiting. metrics may be nil.
func NewRateLimiter(counter WindowCounter, maxRequests int, window time.Duration, metrics *Metrics) *RateLimiter {
	return &RateLimiter{
		counter:     counter,
		maxRequests: maxRequests,
		window:      window,
		metrics:     metrics,
	}
}

// Limit applies the limiter to next. endpoint names the limited route in
// keys and metrics.
func (l *RateLimiter) Limit(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.counter == nil || l.maxRequests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := "rl:" + endpoint + ":" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + clientIP(r)
			count, err := l.counter.Incr(r.Context(), key, l.window)
			if err != nil {
				logger.FromContextOrDefault(r.Context(), slog.Default()).Warn("rate limiter unavailable",
					slog.String("error", redact.Error(err)),
					slog.String("endpoint", endpoint))
				if l.metrics != nil {
					l.metrics.rlErrors.Inc()
				}
				w.Header().Set(RateLimitErrorHeader, "backend-error")
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(l.maxRequests) {
				if l.metrics != nil {
					l.metrics.rlBlocked.WithLabelValues(endpoint).Inc()
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					envelope.RateLimited, shared.MsgTooManyRequests, nil)
				return
			}

			if l.metrics != nil {
				l.metrics.rlRequests.WithLabelValues(endpoint).Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware
// has already replaced it with X-Forwarded-For or X-Real-IP when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
