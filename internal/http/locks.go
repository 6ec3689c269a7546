package http

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// actionLocks prevents the same session from running two copies of one
// mutating action concurrently, the server-side twin of the disabled submit
// button.
type actionLocks interface {
	tryAcquire(ctx context.Context, sid, action string) bool
	release(ctx context.Context, sid, action string)
}

// lockTTL caps how long a crashed request can hold its lock.
const lockTTL = 30 * time.Second

type redisLocks struct {
	client *redis.Client
}

func newRedisLocks(client *redis.Client) *redisLocks {
	return &redisLocks{client: client}
}

func actionLockKey(sid, action string) string {
	return fmt.Sprintf("webui:lock:%s:%s", sid, action)
}

func (l *redisLocks) tryAcquire(ctx context.Context, sid, action string) bool {
	ok, err := l.client.SetNX(ctx, actionLockKey(sid, action), "1", lockTTL).Result()
	if err != nil {
		log.Printf("action lock acquire error: %v", err)
		return false
	}
	return ok
}

func (l *redisLocks) release(ctx context.Context, sid, action string) {
	if err := l.client.Del(ctx, actionLockKey(sid, action)).Err(); err != nil {
		log.Printf("action lock release error: %v", err)
	}
}

type memoryLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemoryLocks() *memoryLocks {
	return &memoryLocks{held: make(map[string]bool)}
}

func (l *memoryLocks) tryAcquire(_ context.Context, sid, action string) bool {
	key := sid + ":" + action
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false
	}
	l.held[key] = true
	return true
}

func (l *memoryLocks) release(_ context.Context, sid, action string) {
	key := sid + ":" + action
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}
