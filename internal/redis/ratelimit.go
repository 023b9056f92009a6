package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{user_id}:reports - reports filed per hour
// - ratelimit:{user_id}:admin - moderation actions per 15 minutes
// - ratelimit:{user_id}:messages - messages sent per minute

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	ReportLimit   int
	ReportWindow  time.Duration
	AdminLimit    int
	AdminWindow   time.Duration
	MessageLimit  int
	MessageWindow time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		ReportLimit:   5,
		ReportWindow:  time.Hour,
		AdminLimit:    100,
		AdminWindow:   15 * time.Minute,
		MessageLimit:  60,
		MessageWindow: time.Minute,
	}
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

// RateLimiter is a fixed-window counter kept in Redis.
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

func (r *RateLimiter) AllowReport(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, limitKey(userID, "reports"), r.config.ReportLimit, r.config.ReportWindow)
}

func (r *RateLimiter) AllowAdminAction(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, limitKey(userID, "admin"), r.config.AdminLimit, r.config.AdminWindow)
}

func (r *RateLimiter) AllowMessage(ctx context.Context, userID string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, limitKey(userID, "messages"), r.config.MessageLimit, r.config.MessageWindow)
}

func limitKey(subject, bucket string) string {
	return fmt.Sprintf("ratelimit:%s:%s", subject, bucket)
}

var limitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')
	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		local n = redis.call('INCR', key)
		if n == 1 then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	end
	return {0, 0, ttl}
`)

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := limitScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	return parseLimitResult(result, limit)
}

func parseLimitResult(result interface{}, limit int) (*RateLimitResult, error) {
	values, ok := result.([]interface{})
	if !ok || len(values) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}
	nums := make([]int64, 3)
	for i := 0; i < 3; i++ {
		n, ok := values[i].(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected rate limit result format")
		}
		nums[i] = n
	}
	return &RateLimitResult{
		Allowed:   nums[0] == 1,
		Remaining: int(nums[1]),
		ResetIn:   time.Duration(nums[2]) * time.Second,
		Limit:     limit,
	}, nil
}
