// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package signup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lureyes/altura/internal/platform/constants"
)

// RedisOTPThrottle implements OTPThrottle using Redis.
type RedisOTPThrottle struct {
	client *redis.Client
}

// NewOTPThrottle creates a new Redis-backed OTPThrottle.
func NewOTPThrottle(client *redis.Client) *RedisOTPThrottle {
	return &RedisOTPThrottle{client: client}
}

/*
Acquire reports whether a new one-time code may be issued to the user.

Description: SET NX with the window as TTL. The first caller within a window
wins; everyone else waits for the key to expire. Redis expires the key on its
own, no cleanup pass needed.

Parameters:
  - context: context.Context
  - userID: string
  - window: time.Duration

Returns:
  - bool: true when issuance is permitted
  - error: Connectivity errors
*/
func (throttle *RedisOTPThrottle) Acquire(context context.Context, userID string, window time.Duration) (bool, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSMSThrottle, userID)

	// SET NX acquires the window atomically
	acquired, err := throttle.client.SetNX(context, key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("redis_otp_throttle_acquire_failed: %w", err)
	}

	// Return the acquisition result
	return acquired, nil
}
