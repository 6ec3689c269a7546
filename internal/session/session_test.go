package session

import (
	"context"
	"testing"
	"time"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

var testProfile = model.Profile{
	ID:          1,
	Email:       "a@b.com",
	FirstName:   "Иван",
	LastName:    "Петров",
	Status:      model.StatusStudent,
	AccessToken: "tok-1",
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sid := NewID()

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
	if profile == nil || *profile != testProfile {
		t.Fatalf("profile round-trip mismatch: %+v", profile)
	}
	ok, err := store.Authenticated(ctx, sid)
	if err != nil || !ok {
		t.Fatalf("expected authenticated session")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sid := NewID()

	if err := store.Put(ctx, sid, "tok-1", testProfile); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Clear(ctx, sid); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	ok, err := store.Authenticated(ctx, sid)
	if err != nil || ok {
		t.Fatalf("expected unauthenticated after clear")
	}
	profile, err := store.Profile(ctx, sid)
	if err != nil || profile != nil {
		t.Fatalf("expected no profile after clear, got %+v (%v)", profile, err)
	}
	// Clearing again is a no-op, not an error.
	if err := store.Clear(ctx, sid); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
}

func TestMemoryStoreMalformedProfileReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sid := NewID()

	if err := store.Put(ctx, sid, "tok-1", testProfile); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	store.CorruptProfile(sid)

	profile, err := store.Profile(ctx, sid)
	if err != nil {
		t.Fatalf("expected soft failure, got %v", err)
	}
	if profile != nil {
		t.Fatalf("expected absent profile, got %+v", profile)
	}
	// Token presence still decides authentication.
	ok, err := store.Authenticated(ctx, sid)
	if err != nil || !ok {
		t.Fatalf("expected session to stay authenticated")
	}
}

func TestMemoryStoreUpdateProfileKeepsToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sid := NewID()

	if err := store.Put(ctx, sid, "tok-1", testProfile); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	updated := testProfile
	updated.Description = "новое описание"
	if err := store.UpdateProfile(ctx, sid, updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	token, _ := store.Token(ctx, sid)
	if token != "tok-1" {
		t.Fatalf("expected token to be kept, got %q", token)
	}
	profile, _ := store.Profile(ctx, sid)
	if profile == nil || profile.Description != "новое описание" {
		t.Fatalf("expected updated profile, got %+v", profile)
	}
}

func TestLoadAssemblesSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sid := NewID()

	sess, err := Load(ctx, store, sid)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sess.Authenticated() {
		t.Fatalf("expected empty session to be unauthenticated")
	}

	if err := store.Put(ctx, sid, "tok-1", testProfile); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	sess, err = Load(ctx, store, sid)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !sess.Authenticated() || sess.Profile == nil || sess.Profile.Email != "a@b.com" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := NewCookieCodec("test-secret", "test-issuer", time.Hour)
	sid := NewID()
	value, err := codec.Encode(sid)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := codec.Decode(value); got != sid {
		t.Fatalf("expected %s, got %s", sid, got)
	}
}

func TestCookieCodecRejectsTampering(t *testing.T) {
	codec := NewCookieCodec("test-secret", "test-issuer", time.Hour)
	other := NewCookieCodec("other-secret", "test-issuer", time.Hour)
	value, err := other.Encode(NewID())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := codec.Decode(value); got != "" {
		t.Fatalf("expected rejection, got %s", got)
	}
	if got := codec.Decode(""); got != "" {
		t.Fatalf("expected empty value to decode as no session")
	}
	if got := codec.Decode("garbage"); got != "" {
		t.Fatalf("expected garbage to decode as no session")
	}
}

func TestCookieCodecRejectsExpired(t *testing.T) {
	codec := NewCookieCodec("test-secret", "test-issuer", -time.Minute)
	value, err := codec.Encode(NewID())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := codec.Decode(value); got != "" {
		t.Fatalf("expected expired cookie to decode as no session")
	}
}
