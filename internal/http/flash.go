package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Flash is one-shot per-session state. Its only use today is the generated
// password after a user is created: written once, read once, gone.
type Flash interface {
	PutPassword(ctx context.Context, sid, password string) error
	// TakePassword returns the stored password and removes it. "" when none.
	TakePassword(ctx context.Context, sid string) (string, error)
}

const flashTTL = 5 * time.Minute

type redisFlash struct {
	client *redis.Client
}

func newRedisFlash(client *redis.Client) *redisFlash {
	return &redisFlash{client: client}
}

func passwordFlashKey(sid string) string {
	return fmt.Sprintf("webui:flash:password:%s", sid)
}

func (f *redisFlash) PutPassword(ctx context.Context, sid, password string) error {
	return f.client.Set(ctx, passwordFlashKey(sid), password, flashTTL).Err()
}

func (f *redisFlash) TakePassword(ctx context.Context, sid string) (string, error) {
	value, err := f.client.GetDel(ctx, passwordFlashKey(sid)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

type memoryFlash struct {
	mu        sync.Mutex
	passwords map[string]string
}

func newMemoryFlash() *memoryFlash {
	return &memoryFlash{passwords: make(map[string]string)}
}

func (f *memoryFlash) PutPassword(_ context.Context, sid, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[sid] = password
	return nil
}

func (f *memoryFlash) TakePassword(_ context.Context, sid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	password := f.passwords[sid]
	delete(f.passwords, sid)
	return password, nil
}
