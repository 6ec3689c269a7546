package http

import (
	"log"
	"net/http"

	"github.com/team8-2025-2026/AiAgents/internal/chat"
	"github.com/team8-2025-2026/AiAgents/internal/guard"
	"github.com/team8-2025-2026/AiAgents/internal/model"
	"github.com/team8-2025-2026/AiAgents/internal/session"
)

type homePageData struct {
	User            model.Profile
	StatusLabel     string
	IsStudent       bool
	IsTeacher       bool
	IsAssistent     bool
	Chats           []chat.Chat
	Seq             uint64
	SelectedChatID  string
	FilterStatus    string
	FilterStudentID string
	RefreshMillis   int64
	Error           string
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}

	filter := chat.Filter{}
	if profile.Status == model.StatusTeacher {
		filter.Status = r.URL.Query().Get("status")
		filter.StudentID = r.URL.Query().Get("student")
	}
	chats, seq := s.chats.List(profile.Email, filter)

	render(w, "home.html", homePageData{
		User:            profile,
		StatusLabel:     model.StatusLabel(profile.Status),
		IsStudent:       profile.Status == model.StatusStudent,
		IsTeacher:       profile.Status == model.StatusTeacher,
		IsAssistent:     profile.Status == model.StatusAssistent,
		Chats:           chats,
		Seq:             seq,
		SelectedChatID:  r.URL.Query().Get("chat"),
		FilterStatus:    filter.Status,
		FilterStudentID: filter.StudentID,
		RefreshMillis:   s.cfg.ChatRefreshInterval.Milliseconds(),
	})
}

// resolveProfile returns the cached profile, re-fetching it by token when the
// cache is absent or unreadable. A token the backend no longer recognizes
// ends the session.
func (s *Server) resolveProfile(w http.ResponseWriter, r *http.Request, sess *session.Session) (model.Profile, bool) {
	if sess.Profile != nil {
		return *sess.Profile, true
	}

	profile, err := s.api.UserByToken(r.Context(), sess.Token)
	if err != nil {
		if isBusinessError(err) {
			if clearErr := s.sessions.Clear(r.Context(), sess.ID); clearErr != nil {
				log.Printf("session clear error: %v", clearErr)
			}
			s.clearSessionCookie(w)
			http.Redirect(w, r, guard.LoginRoute, http.StatusSeeOther)
			return model.Profile{}, false
		}
		http.Error(w, "Ошибка подключения к серверу", http.StatusBadGateway)
		return model.Profile{}, false
	}

	if err := s.sessions.UpdateProfile(r.Context(), sess.ID, profile); err != nil {
		log.Printf("profile refresh store error: %v", err)
	}
	sess.Profile = &profile
	return profile, true
}
