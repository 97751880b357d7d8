package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client RedisClient, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one event for key and reports whether it is within the limit.
// A nil limiter allows everything.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r == nil || r.client == nil {
		return true, nil
	}
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, r.window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(r.limit) {
		return false, nil
	}

	return true, nil
}

func ChatReplyKey(chatID int64) string {
	return fmt.Sprintf("rate_limit:%d:reply", chatID)
}
