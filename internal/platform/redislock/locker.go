// Package redislock provides a Redis-backed mutual exclusion lock used to
// make sure only one process runs the completion sweep per tick.
package redislock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis key guarding the completion sweep.
const DefaultKey = "tasks-api:sweeper:lock"

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another process is never released by us.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Locker acquires a single named lock with a time-to-live.
type Locker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewLocker creates a Locker for key. The lock expires after ttl even if the
// holder never releases it.
func NewLocker(client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) *Locker {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = DefaultKey
	}

	return &Locker{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "sweep_lock")),
	}
}

// NewClient parses a redis:// URL and returns a connected client.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// TryLock attempts to take the lock without waiting. When acquired is false
// another holder owns the lock and unlock is nil.
func (l *Locker) TryLock(
	ctx context.Context,
) (unlock func(context.Context) error, acquired bool, err error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		l.logger.Debug("lock held elsewhere", slog.String("key", l.key))
		return nil, false, nil
	}

	unlock = func(ctx context.Context) error {
		released, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int64()
		if err != nil {
			return fmt.Errorf("failed to release lock %s: %w", l.key, err)
		}
		if released == 0 {
			l.logger.Warn("lock expired before release", slog.String("key", l.key))
		}
		return nil
	}

	return unlock, true, nil
}
