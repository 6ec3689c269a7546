package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func openTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := openTestRedis(t)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	sid := NewID()
	defer func() { _ = store.Clear(ctx, sid) }()

	if err := store.Put(ctx, sid, "tok-1", testProfile); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	token, err := store.Token(ctx, sid)
	if err != nil || token != "tok-1" {
		t.Fatalf("expected tok-1, got %q (%v)", token, err)
	}
	profile, err := store.Profile(ctx, sid)
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if profile == nil || profile.Email != testProfile.Email {
		t.Fatalf("profile round-trip mismatch: %+v", profile)
	}

	if err := store.Clear(ctx, sid); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	ok, err := store.Authenticated(ctx, sid)
	if err != nil || ok {
		t.Fatalf("expected unauthenticated after clear")
	}
}

func TestRedisStoreMalformedProfileReadsAsAbsent(t *testing.T) {
	client := openTestRedis(t)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	sid := NewID()
	defer func() { _ = store.Clear(ctx, sid) }()

	if err := store.Put(ctx, sid, "tok-1", testProfile); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := client.Set(ctx, profileKey(sid), "{not json", time.Minute).Err(); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}
	profile, err := store.Profile(ctx, sid)
	if err != nil || profile != nil {
		t.Fatalf("expected absent profile without error, got %+v (%v)", profile, err)
	}
}
