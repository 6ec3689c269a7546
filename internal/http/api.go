package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/team8-2025-2026/AiAgents/internal/chat"
	"github.com/team8-2025-2026/AiAgents/internal/model"
)

// Chat API consumed by the home page's polling script. Authorization follows
// the UI rules: students own their chats and may create and delete them,
// teachers may filter, everyone may rename and write.

type chatListResponse struct {
	Chats []chat.Chat `json:"chats"`
	Seq   uint64      `json:"seq"`
}

func (s *Server) apiProfile(w http.ResponseWriter, r *http.Request) (model.Profile, bool) {
	sess := sessionFromContext(r.Context())
	if sess.Profile != nil {
		return *sess.Profile, true
	}
	profile, err := s.api.UserByToken(r.Context(), sess.Token)
	if err != nil {
		if isBusinessError(err) {
			writeError(w, http.StatusUnauthorized, "invalid_token")
		} else {
			writeError(w, http.StatusBadGateway, "backend_unavailable")
		}
		return model.Profile{}, false
	}
	if err := s.sessions.UpdateProfile(r.Context(), sess.ID, profile); err != nil {
		log.Printf("profile refresh store error: %v", err)
	}
	sess.Profile = &profile
	return profile, true
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.apiProfile(w, r)
	if !ok {
		return
	}
	filter := chat.Filter{}
	if profile.Status == model.StatusTeacher {
		filter.Status = r.URL.Query().Get("status")
		filter.StudentID = r.URL.Query().Get("student")
	}
	chats, seq := s.chats.List(profile.Email, filter)
	writeJSON(w, http.StatusOK, chatListResponse{Chats: chats, Seq: seq})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.apiProfile(w, r)
	if !ok {
		return
	}
	if profile.Status != model.StatusStudent {
		writeError(w, http.StatusForbidden, "students_only")
		return
	}
	created := s.chats.Create(profile.Email)
	writeJSON(w, http.StatusCreated, created)
}

type renameChatRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleRenameChat(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.apiProfile(w, r)
	if !ok {
		return
	}
	var req renameChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "missing_title")
		return
	}
	err := s.chats.Rename(profile.Email, chi.URLParam(r, "chatID"), req.Title)
	if errors.Is(err, chat.ErrChatNotFound) {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.apiProfile(w, r)
	if !ok {
		return
	}
	if profile.Status != model.StatusStudent {
		writeError(w, http.StatusForbidden, "students_only")
		return
	}
	err := s.chats.Delete(profile.Email, chi.URLParam(r, "chatID"))
	if errors.Is(err, chat.ErrChatNotFound) {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.apiProfile(w, r)
	if !ok {
		return
	}
	messages, err := s.chats.Messages(profile.Email, chi.URLParam(r, "chatID"))
	if errors.Is(err, chat.ErrChatNotFound) {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"seq":      s.chats.Seq(profile.Email),
	})
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.apiProfile(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "missing_content")
		return
	}
	// The reply timer outlives this request; it is bounded by the server's
	// base context, not the request's.
	msg, err := s.chats.Send(s.baseCtx, profile.Email, chi.URLParam(r, "chatID"), req.Content)
	if errors.Is(err, chat.ErrChatNotFound) {
		writeError(w, http.StatusNotFound, "chat_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
