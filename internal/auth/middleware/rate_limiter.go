package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/studyshare/studyshare-backend/internal/pkg/logger"
	"github.com/studyshare/studyshare-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimiterConfig configures the sliding-window limiter
type RateLimiterConfig struct {
	// maximum requests allowed inside the window
	MaxRequests int
	// window length in seconds
	WindowSeconds int
	// keying strategy: user, endpoint, ip (default)
	Strategy string
}

// slidingWindowScript trims expired entries, counts the window, and records
// the request in a single atomic round trip.
const slidingWindowScript = `
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_start = now - window

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		redis.call('ZADD', key, now, now)
		redis.call('EXPIRE', key, window)
		return {1, limit - current - 1, now + window}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')[2]
		local reset_time = tonumber(oldest) + window
		return {0, 0, reset_time}
	end
`

// RateLimiter is a Redis-backed sliding window rate limiter. When the
// limiter itself fails, requests are allowed through.
func RateLimiter(redisClient *goredis.Client, cfg RateLimiterConfig, log *logger.Logger) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 100
	}
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 60
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "ip"
	}

	return func(c *gin.Context) {
		key := buildRateLimitKey(c, cfg.Strategy)

		ctx := c.Request.Context()
		allowed, remaining, resetTime, err := checkRateLimit(ctx, redisClient, key, cfg)

		if err != nil {
			log.Error("rate limiter error", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime))

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", cfg.WindowSeconds))
			response.Error(c, http.StatusTooManyRequests,
				fmt.Sprintf("too many requests, please try again in %d seconds", cfg.WindowSeconds))
			c.Abort()
			return
		}

		c.Next()
	}
}

func buildRateLimitKey(c *gin.Context, strategy string) string {
	prefix := "rate_limit"

	switch strategy {
	case "user":
		// requires the auth middleware to have run first
		if userID, ok := GetUserID(c); ok {
			return fmt.Sprintf("%s:user:%s", prefix, userID)
		}
		// unauthenticated callers fall back to IP keying
		return fmt.Sprintf("%s:ip:%s", prefix, c.ClientIP())

	case "endpoint":
		return fmt.Sprintf("%s:endpoint:%s:%s", prefix, c.Request.URL.Path, c.ClientIP())

	default:
		return fmt.Sprintf("%s:ip:%s", prefix, c.ClientIP())
	}
}

func checkRateLimit(ctx context.Context, redisClient *goredis.Client, key string, cfg RateLimiterConfig) (allowed bool, remaining int, resetTime int64, err error) {
	now := time.Now().Unix()

	result, err := redisClient.Eval(ctx, slidingWindowScript, []string{key}, now, cfg.WindowSeconds, cfg.MaxRequests).Result()
	if err != nil {
		return false, 0, 0, err
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 3 {
		return false, 0, 0, fmt.Errorf("invalid rate limit result")
	}

	allowedInt, _ := resultSlice[0].(int64)
	remainingInt, _ := resultSlice[1].(int64)
	resetTimeInt, _ := resultSlice[2].(int64)

	return allowedInt == 1, int(remainingInt), resetTimeInt, nil
}

// UploadRateLimiter throttles resource uploads per user.
// 20 uploads / 10 minutes.
func UploadRateLimiter(redisClient *goredis.Client, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(redisClient, RateLimiterConfig{
		MaxRequests:   20,
		WindowSeconds: 600,
		Strategy:      "user",
	}, log)
}

// DownloadRateLimiter throttles download-count writes per IP so a single
// client cannot inflate counters.
// 120 requests / 1 minute.
func DownloadRateLimiter(redisClient *goredis.Client, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(redisClient, RateLimiterConfig{
		MaxRequests:   120,
		WindowSeconds: 60,
		Strategy:      "ip",
	}, log)
}

// APIRateLimiter is the general per-IP limit applied to the whole API group.
// 300 requests / 1 minute.
func APIRateLimiter(redisClient *goredis.Client, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(redisClient, RateLimiterConfig{
		MaxRequests:   300,
		WindowSeconds: 60,
		Strategy:      "ip",
	}, log)
}
