package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const throttleKeyPrefix = "catalog:login:fail:"

// LoginThrottle counts failed logins per login id in Redis. Redis being unreachable
// never blocks a login; the error is logged and the attempt allowed.
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginThrottle builds a throttle. A nil client or non-positive maxAttempts disables it.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window, logger: logger}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.maxAttempts > 0
}

// Allow returns ErrLoginThrottled once loginID has used up its failures for the window.
func (t *LoginThrottle) Allow(ctx context.Context, loginID string) error {
	if !t.enabled() {
		return nil
	}
	count, err := t.client.Get(ctx, throttleKey(loginID)).Int()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		t.logger.Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
	if count >= t.maxAttempts {
		return ErrLoginThrottled
	}
	return nil
}

// RecordFailure increments the failure counter, starting the window on the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, loginID string) {
	if !t.enabled() {
		return
	}
	key := throttleKey(loginID)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle incr failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, loginID string) {
	if !t.enabled() {
		return
	}
	if err := t.client.Del(ctx, throttleKey(loginID)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}

func throttleKey(loginID string) string {
	return fmt.Sprintf("%s%s", throttleKeyPrefix, strings.ToLower(loginID))
}
