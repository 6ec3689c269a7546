package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/team8-2025-2026/AiAgents/internal/guard"
	"github.com/team8-2025-2026/AiAgents/internal/session"
)

type authPageData struct {
	Email string
	Error string
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	if sessionFromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, guard.HomeRoute, http.StatusSeeOther)
		return
	}
	render(w, "auth.html", authPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if sessionFromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, guard.HomeRoute, http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		render(w, "auth.html", authPageData{Email: email, Error: "Введите email и пароль"})
		return
	}

	profile, err := s.api.Login(r.Context(), email, password)
	if err != nil {
		// The stored session is untouched on any failed outcome.
		render(w, "auth.html", authPageData{
			Email: email,
			Error: userMessage(err, "Ошибка авторизации"),
		})
		return
	}

	sid := session.NewID()
	if err := s.sessions.Put(r.Context(), sid, profile.AccessToken, profile); err != nil {
		render(w, "auth.html", authPageData{Email: email, Error: "Ошибка сохранения сессии"})
		return
	}
	if err := s.setSessionCookie(w, sid); err != nil {
		_ = s.sessions.Clear(r.Context(), sid)
		render(w, "auth.html", authPageData{Email: email, Error: "Ошибка сохранения сессии"})
		return
	}
	http.Redirect(w, r, guard.HomeRoute, http.StatusSeeOther)
}

// handleLogout clears the session. It always succeeds from the user's point
// of view; a store error is logged and the cookie is dropped regardless.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess != nil && sess.ID != "" {
		if err := s.sessions.Clear(r.Context(), sess.ID); err != nil {
			log.Printf("session clear error: %v", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, guard.LoginRoute, http.StatusSeeOther)
}
