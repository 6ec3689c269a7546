// Package session holds the authenticated state of a browser: the backend
// access token and the cached user profile, keyed by an opaque session ID
// carried in a signed cookie.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

// Session is the client-held proof of authentication. Profile may be nil when
// the stored record is missing or unreadable; Token alone decides whether the
// session counts as authenticated.
type Session struct {
	ID      string
	Token   string
	Profile *model.Profile
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Store persists session state. Implementations must make Put and Clear
// atomic from a reader's perspective: no observable state with a token but a
// stale profile of another login, and no half-cleared session.
type Store interface {
	// Put replaces the whole session record, token and profile together.
	Put(ctx context.Context, sid, token string, profile model.Profile) error
	// Token returns the stored access token, or "" when none is stored.
	Token(ctx context.Context, sid string) (string, error)
	// Profile returns the stored profile. A missing or malformed record
	// reads as nil without error.
	Profile(ctx context.Context, sid string) (*model.Profile, error)
	// Authenticated reports whether a token is stored, regardless of the
	// profile's validity.
	Authenticated(ctx context.Context, sid string) (bool, error)
	// UpdateProfile replaces only the stored profile, keeping the token.
	UpdateProfile(ctx context.Context, sid string, profile model.Profile) error
	// Clear removes token and profile together. Clearing an absent session
	// is not an error.
	Clear(ctx context.Context, sid string) error
}

// NewID mints a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Load assembles a Session from the store. Used by the HTTP layer once per
// request after decoding the cookie.
func Load(ctx context.Context, store Store, sid string) (*Session, error) {
	token, err := store.Token(ctx, sid)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return &Session{ID: sid}, nil
	}
	profile, err := store.Profile(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &Session{ID: sid, Token: token, Profile: profile}, nil
}
