package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// windowState is one client's position in the current fixed window.
type windowState struct {
	count int64
	reset time.Duration
}

func (s windowState) remaining(limit int) int {
	if left := int64(limit) - s.count; left > 0 {
		return int(left)
	}
	return 0
}

func clientKey(r *http.Request) string {
	if subject, ok := GetSubject(r.Context()); ok {
		return "sub:" + subject
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// hit counts one request against key. The window starts on the first hit.
func hit(ctx context.Context, client *redis.Client, key string, window time.Duration) (windowState, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return windowState{}, err
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return windowState{}, err
		}
		return windowState{count: count, reset: window}, nil
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return windowState{count: count, reset: ttl}, nil
}

// RateLimitMiddleware limits each caller to RequestsPerWindow calls per Window,
// keyed by token subject or client IP. Redis failures let the request through.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:%s", config.KeyPrefix, clientKey(r))

			state, err := hit(r.Context(), redisClient, key, config.Window)
			if err != nil {
				logger.Error("Rate limiter unavailable, allowing request",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(state.remaining(config.RequestsPerWindow)))

			if state.count <= int64(config.RequestsPerWindow) {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("Seed rate limit exceeded",
				zap.String("key", key),
				zap.Int64("count", state.count),
				zap.Duration("reset", state.reset),
			)
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(state.reset).Unix(), 10))
			w.Header().Set("Retry-After", strconv.Itoa(int(state.reset.Seconds())))
			RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		})
	}
}
