package redisinfra

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockHeld is returned when a lock is already held by another owner.
var ErrLockHeld = errors.New("lock already held")

// Lock is a minimal distributed lock on Redis (SET NX with a TTL and an
// owner token). It fences the snapshot job so only one process takes a
// snapshot at a time.
type Lock struct {
	rdb *redis.Client
}

// NewLock creates a lock manager on an existing client.
func NewLock(rdb *redis.Client) *Lock {
	return &Lock{rdb: rdb}
}

// Acquire takes the named lock for at most ttl. The returned release
// function deletes the lock only when this call still owns it.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, name, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		// Release must not inherit the job's cancellation.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		held, err := l.rdb.Get(ctx, name).Result()
		if err != nil || held != token {
			return
		}
		l.rdb.Del(ctx, name)
	}
	return release, nil
}
