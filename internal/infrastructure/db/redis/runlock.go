package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const runLockKey = "batch:run:lock"

// releaseScript deletes the lock only when we still own it, so a run that
// outlives its lease cannot release a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the TTL only while we still own the lock.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RunLock is a Redis-backed lease preventing concurrent batch runs across
// process instances. The in-process reentrancy guard lives in the runner;
// this guards the fleet.
type RunLock struct {
	client *redis.Client
	owner  string
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client, owner: uuid.NewString()}
}

// Acquire attempts to take the lease for ttl. Returns false when another
// instance holds it.
func (l *RunLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, runLockKey, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

// Extend pushes the lease expiry out by ttl while a run is still active,
// so a run that outlives the original TTL keeps its exclusivity.
func (l *RunLock) Extend(ctx context.Context, ttl time.Duration) error {
	if err := extendScript.Run(ctx, l.client, []string{runLockKey}, l.owner, ttl.Milliseconds()).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("extend run lock: %w", err)
	}
	return nil
}

// Release gives the lease back if we still hold it.
func (l *RunLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{runLockKey}, l.owner).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
