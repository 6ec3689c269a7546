package http

import (
	"net/http"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

type userPageData struct {
	User        model.Profile
	StatusLabel string
	Description string
}

func (s *Server) handleUserPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}
	description := profile.Description
	if description == "" {
		description = "Не указано"
	}
	render(w, "user.html", userPageData{
		User:        profile,
		StatusLabel: model.StatusLabel(profile.Status),
		Description: description,
	})
}
