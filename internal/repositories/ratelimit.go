package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository guards the login endpoint. Returns whether the attempt
// is allowed, how many tries remain, and how long to wait when blocked.
type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, email string) (allowed bool, remaining int, retryAfter int, err error)
}

type redisRateLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	now         func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, maxAttempts int64, window time.Duration) RateLimitRepository {
	return &redisRateLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Sliding window over a sorted set: one member per attempt, scored by its
// unix timestamp, old members pruned on every check.
func (r *redisRateLimiter) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	key := fmt.Sprintf("login_attempts:%s", email)

	now := r.now().Unix()
	windowStart := now - int64(r.window.Seconds())

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	remaining := r.maxAttempts - attempts

	if attempts >= r.maxAttempts {
		scores, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).Result()
		if err != nil {
			return false, 0, int(r.window.Seconds()), fmt.Errorf("failed to get oldest attempt time: %w", err)
		}

		// The key can expire between the pipeline and this read.
		if len(scores) == 0 {
			return false, 0, int(r.window.Seconds()), fmt.Errorf("no recorded attempts for %s despite exceeded limit", key)
		}

		oldest := int64(scores[0].Score)
		retryAfter := max((oldest+int64(r.window.Seconds()))-now, 0)

		slog.Warn("Login rate limit exceeded", slog.String("email", email), slog.Int64("attempts", attempts))

		return false, 0, int(retryAfter), nil
	}

	return true, int(remaining), 0, nil
}

type noopRateLimiter struct{}

// NewNoopRateLimiter always allows. Used when no Redis instance is
// configured, e.g. with the file storage driver in local setups.
func NewNoopRateLimiter() RateLimitRepository {
	return noopRateLimiter{}
}

func (noopRateLimiter) CheckLoginRateLimit(context.Context, string) (bool, int, int, error) {
	return true, 0, 0, nil
}
