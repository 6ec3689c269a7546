package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

// MemoryStore is the in-process Store used when no redis is configured and in
// tests. It serializes profiles the same way RedisStore does so malformed
// data behaves identically.
type MemoryStore struct {
	mu       sync.RWMutex
	tokens   map[string]string
	profiles map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:   make(map[string]string),
		profiles: make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(_ context.Context, sid, token string, profile model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sid] = token
	s.profiles[sid] = data
	return nil
}

func (s *MemoryStore) Token(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sid], nil
}

func (s *MemoryStore) Profile(_ context.Context, sid string) (*model.Profile, error) {
	s.mu.RLock()
	data, ok := s.profiles[sid]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, nil
	}
	return &profile, nil
}

func (s *MemoryStore) Authenticated(_ context.Context, sid string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sid] != "", nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, sid string, profile model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[sid] = data
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
	delete(s.profiles, sid)
	return nil
}

// CorruptProfile overwrites the stored profile with bytes that do not parse.
// Test hook for the soft-fail read path.
func (s *MemoryStore) CorruptProfile(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[sid] = []byte("{not json")
}
