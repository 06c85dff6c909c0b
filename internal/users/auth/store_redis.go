// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/critiq/internal/platform/constants"
)

// RedisCodeThrottle implements [CodeThrottle] with one expiring key per email.
type RedisCodeThrottle struct {
	client   redis.UniversalClient
	interval time.Duration
}

// NewCodeThrottle returns a throttle allowing one code per interval.
// A non-positive interval disables throttling.
func NewCodeThrottle(client redis.UniversalClient, interval time.Duration) *RedisCodeThrottle {
	return &RedisCodeThrottle{client: client, interval: interval}
}

/*
Acquire sets the window key only if it is absent (SET NX), so two concurrent
requests cannot both pass.
*/
func (throttle *RedisCodeThrottle) Acquire(context context.Context, email string) (time.Duration, error) {
	if throttle.interval <= 0 {
		return 0, nil
	}

	key := throttleKey(email)

	// Two attempts: the key may expire between SETNX and PTTL
	for range 2 {
		acquired, err := throttle.client.SetNX(context, key, "1", throttle.interval).Result()
		if err != nil {
			return 0, fmt.Errorf("redis_code_throttle_acquire_failed: %w", err)
		}
		if acquired {
			return 0, nil
		}

		remaining, err := throttle.client.PTTL(context, key).Result()
		if err != nil {
			return 0, fmt.Errorf("redis_code_throttle_ttl_failed: %w", err)
		}
		if remaining > 0 {
			return remaining, nil
		}
	}
	return throttle.interval, nil
}

// Release deletes the window key.
func (throttle *RedisCodeThrottle) Release(context context.Context, email string) error {
	if throttle.interval <= 0 {
		return nil
	}
	if err := throttle.client.Del(context, throttleKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_code_throttle_release_failed: %w", err)
	}
	return nil
}

func throttleKey(email string) string {
	return constants.RedisPrefixCodeThrottle + email
}
