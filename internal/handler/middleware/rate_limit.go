package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Token bucket, one per client IP. State lives in a redis hash so every
// gateway instance sees the same bucket.
const tokenBucketScript = `
local bucket_key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local state = redis.call('HMGET', bucket_key, 'tokens', 'refilled_at')
local tokens = tonumber(state[1])
local refilled_at = tonumber(state[2])
if tokens == nil or refilled_at == nil then
    tokens = capacity
    refilled_at = now
end

tokens = math.min(capacity, tokens + math.max(0, now - refilled_at) * refill_rate)

local allowed = 0
local retry_after = 0
if tokens >= cost then
    tokens = tokens - cost
    allowed = 1
else
    retry_after = (cost - tokens) / refill_rate
end

redis.call('HMSET', bucket_key, 'tokens', tokens, 'refilled_at', now)
redis.call('EXPIRE', bucket_key, 86400)

return {allowed, math.floor(tokens), math.ceil(retry_after)}
`

type bucketVerdict struct {
	allowed    bool
	remaining  int
	retryAfter int
}

func parseVerdict(result any, capacity int) bucketVerdict {
	v := bucketVerdict{remaining: capacity}
	arr, ok := result.([]any)
	if !ok || len(arr) < 3 {
		return v
	}
	if n, ok := arr[0].(int64); ok {
		v.allowed = n == 1
	}
	if n, ok := arr[1].(int64); ok {
		v.remaining = int(n)
	}
	if n, ok := arr[2].(int64); ok {
		v.retryAfter = int(n)
	}
	return v
}

// RateLimit is a per-IP token bucket: capacity 2*qps, refill qps tokens/sec.
// Bucket keys carry keyPrefix so they share the configured cache namespace.
// Fail-open: a redis fault must not take the gateway down.
func RateLimit(redisClient *redis.Client, keyPrefix string, qps int) gin.HandlerFunc {
	return func(c *gin.Context) {
		capacity := 2 * qps
		now := float64(time.Now().UnixNano()) / 1e9

		result, err := redisClient.Eval(
			c.Request.Context(),
			tokenBucketScript,
			[]string{keyPrefix + c.ClientIP()},
			capacity, float64(qps), now, 1,
		).Result()
		if err != nil {
			slog.Warn("rate limiter degraded", "error", err)
			c.Next()
			return
		}

		verdict := parseVerdict(result, capacity)
		c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))

		if !verdict.allowed {
			c.Header("Retry-After", strconv.Itoa(verdict.retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(verdict.remaining))
		c.Next()
	}
}
