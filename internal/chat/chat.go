// Package chat holds the per-user chat state shown on the home page. The real
// chat backend does not exist yet; a mock Source stands in for it and the
// service keeps everything in memory. Mutations bump a per-user sequence
// number so the periodic refresh can detect that it raced a local edit.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen    = "open"
	StatusDeleted = "deleted"

	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrChatNotFound = errors.New("chat not found")

type Chat struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StudentID   string `json:"student_id,omitempty"`
	Status      string `json:"status"`
	LastMessage string `json:"last_message"`

	deletedAt time.Time
}

type Message struct {
	ID      string    `json:"id"`
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"timestamp"`
}

// Filter narrows a chat list. Zero values match everything.
type Filter struct {
	Status    string
	StudentID string
}

func (f Filter) matches(c *Chat) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.StudentID != "" && c.StudentID != f.StudentID {
		return false
	}
	return true
}

// Source provides the canonical chat list for a user. The only implementation
// today is the mock fixture; a real backend client slots in here later.
type Source interface {
	Chats(ctx context.Context, owner string) ([]Chat, error)
}

type userState struct {
	seq      uint64
	chats    []*Chat
	messages map[string][]Message
}

type Service struct {
	mu         sync.Mutex
	users      map[string]*userState
	source     Source
	replyDelay time.Duration
}

func NewService(source Source, replyDelay time.Duration) *Service {
	if source == nil {
		source = MockSource{}
	}
	return &Service{
		users:      make(map[string]*userState),
		source:     source,
		replyDelay: replyDelay,
	}
}

func (s *Service) state(owner string) *userState {
	st, ok := s.users[owner]
	if !ok {
		st = &userState{messages: make(map[string][]Message)}
		s.users[owner] = st
	}
	return st
}

func (s *Service) find(st *userState, chatID string) *Chat {
	for _, c := range st.chats {
		if c.ID == chatID {
			return c
		}
	}
	return nil
}

// List returns the user's chats newest-first along with the sequence number
// the snapshot was taken at.
func (s *Service) List(owner string, filter Filter) ([]Chat, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	out := make([]Chat, 0, len(st.chats))
	for _, c := range st.chats {
		if filter.matches(c) {
			out = append(out, *c)
		}
	}
	return out, st.seq
}

// Seq returns the user's current sequence number.
func (s *Service) Seq(owner string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(owner).seq
}

// Create opens a fresh chat at the top of the list.
func (s *Service) Create(owner string) Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	st.seq++
	c := &Chat{
		ID:     uuid.NewString(),
		Title:  "Новый чат",
		Status: StatusOpen,
	}
	st.chats = append([]*Chat{c}, st.chats...)
	return *c
}

// Rename sets a chat's title.
func (s *Service) Rename(owner, chatID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	c := s.find(st, chatID)
	if c == nil {
		return ErrChatNotFound
	}
	st.seq++
	c.Title = title
	return nil
}

// Delete marks a chat deleted. The record stays visible (teachers filter on
// the deleted status) until the purge job drops it.
func (s *Service) Delete(owner, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	c := s.find(st, chatID)
	if c == nil {
		return ErrChatNotFound
	}
	st.seq++
	c.Status = StatusDeleted
	c.deletedAt = time.Now().UTC()
	return nil
}

// Messages returns a chat's message log.
func (s *Service) Messages(owner, chatID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	if s.find(st, chatID) == nil {
		return nil, ErrChatNotFound
	}
	msgs := st.messages[chatID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Send appends the user's message and schedules the demo assistant reply.
// ctx bounds the reply timer: a stopped service never writes late state.
func (s *Service) Send(ctx context.Context, owner, chatID, content string) (Message, error) {
	s.mu.Lock()
	st := s.state(owner)
	c := s.find(st, chatID)
	if c == nil {
		s.mu.Unlock()
		return Message{}, ErrChatNotFound
	}
	st.seq++
	msg := Message{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: content,
		SentAt:  time.Now().UTC(),
	}
	st.messages[chatID] = append(st.messages[chatID], msg)
	c.LastMessage = content
	s.mu.Unlock()

	// The cancellation check lives in the callback itself; no goroutine
	// watches ctx per message.
	time.AfterFunc(s.replyDelay, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.appendAssistantReply(owner, chatID)
	})

	return msg, nil
}

func (s *Service) appendAssistantReply(owner, chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	c := s.find(st, chatID)
	if c == nil || c.Status != StatusOpen {
		return
	}
	st.seq++
	reply := Message{
		ID:      uuid.NewString(),
		Role:    RoleAssistant,
		Content: "Это демо-ответ. В реальной версии здесь будет ответ от AI.",
		SentAt:  time.Now().UTC(),
	}
	st.messages[chatID] = append(st.messages[chatID], reply)
	c.LastMessage = reply.Content
}

// Refresh fetches the user's chats from the source and folds in any the user
// does not have yet. The fold is applied only when the sequence number still
// equals since; a refresh that raced a local mutation is dropped, never
// clobbering the newer local state.
func (s *Service) Refresh(ctx context.Context, owner string, since uint64) (bool, error) {
	fetched, err := s.source.Chats(ctx, owner)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(owner)
	if st.seq != since {
		return false, nil
	}
	known := make(map[string]bool, len(st.chats))
	for _, c := range st.chats {
		known[c.ID] = true
	}
	for i := range fetched {
		if known[fetched[i].ID] {
			continue
		}
		c := fetched[i]
		st.chats = append(st.chats, &c)
	}
	return true, nil
}

// Owners lists users with chat state, for the background jobs.
func (s *Service) Owners() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.users))
	for owner := range s.users {
		out = append(out, owner)
	}
	return out
}

// PurgeDeleted drops chats that have been in the deleted state longer than
// keep. Returns the number removed.
func (s *Service) PurgeDeleted(keep time.Duration) int {
	cutoff := time.Now().UTC().Add(-keep)
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for _, st := range s.users {
		removed := 0
		kept := st.chats[:0]
		for _, c := range st.chats {
			if c.Status == StatusDeleted && c.deletedAt.Before(cutoff) {
				delete(st.messages, c.ID)
				removed++
				continue
			}
			kept = append(kept, c)
		}
		st.chats = kept
		if removed > 0 {
			st.seq++
			purged += removed
		}
	}
	return purged
}
