package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epicevents/crm/internal/core/ports"
)

const (
	defaultLockThreshold = 5
	defaultLockTTL       = 15 * time.Minute
)

// LoginGuard counts failed logins per username and locks the username once
// the count reaches the threshold within the window.
// Key format: crm:loginfail:<username> (counter), crm:lock:login:<username> (lock).
type LoginGuard struct {
	client    *redis.Client
	threshold int64
	ttl       time.Duration
}

var _ ports.LoginGuard = (*LoginGuard)(nil)

// NewLoginGuard wraps client. Non-positive settings fall back to 5 failures
// per 15 minutes.
func NewLoginGuard(client *redis.Client, threshold int, ttl time.Duration) *LoginGuard {
	if threshold <= 0 {
		threshold = defaultLockThreshold
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &LoginGuard{client: client, threshold: int64(threshold), ttl: ttl}
}

// Locked reports whether the username is currently locked out.
func (g *LoginGuard) Locked(ctx context.Context, username string) (bool, error) {
	n, err := g.client.Exists(ctx, lockKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("login guard check: %w", err)
	}
	return n > 0, nil
}

// RecordFailure counts one failed attempt. The counter window starts at the
// first failure; reaching the threshold sets the lock for the same TTL.
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) (bool, error) {
	key := failKey(username)

	n, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("login guard record: %w", err)
	}
	if n == 1 {
		if err := g.client.Expire(ctx, key, g.ttl).Err(); err != nil {
			return false, fmt.Errorf("login guard record: %w", err)
		}
	}
	if n < g.threshold {
		return false, nil
	}
	if err := g.client.Set(ctx, lockKey(username), "1", g.ttl).Err(); err != nil {
		return false, fmt.Errorf("login guard lock: %w", err)
	}
	return true, nil
}

// Reset clears the failure counter and any lock.
func (g *LoginGuard) Reset(ctx context.Context, username string) error {
	if err := g.client.Del(ctx, failKey(username), lockKey(username)).Err(); err != nil {
		return fmt.Errorf("login guard reset: %w", err)
	}
	return nil
}

func failKey(username string) string {
	return "crm:loginfail:" + strings.ToLower(username)
}

func lockKey(username string) string {
	return "crm:lock:login:" + strings.ToLower(username)
}
