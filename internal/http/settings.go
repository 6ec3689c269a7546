package http

import (
	"log"
	"net/http"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

type settingsPageData struct {
	User    model.Profile
	Error   string
	Success string
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}
	render(w, "settings.html", settingsPageData{User: profile})
}

// handleChangePassword validates the form locally, verifies the current
// password against the backend, then PATCHes the new one. No gateway call is
// made before local validation passes.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}

	oldPassword := r.FormValue("old_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	fail := func(message string) {
		render(w, "settings.html", settingsPageData{User: profile, Error: message})
	}

	if newPassword != confirmPassword {
		fail("Новый пароль и подтверждение не совпадают")
		return
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		fail("Пароль должен быть от 8 до 32 символов")
		return
	}

	if !s.locks.tryAcquire(r.Context(), sess.ID, "change_password") {
		fail("Запрос уже выполняется")
		return
	}
	defer s.locks.release(r.Context(), sess.ID, "change_password")

	// The backend has no dedicated verify endpoint; a login round-trip
	// checks the current password.
	if _, err := s.api.Login(r.Context(), profile.Email, oldPassword); err != nil {
		if isBusinessError(err) {
			fail("Неверный текущий пароль")
		} else {
			fail(userMessage(err, "Ошибка при изменении пароля"))
		}
		return
	}

	updated, err := s.api.UpdateUser(r.Context(), profile.Email, sess.Token, model.ProfileUpdate{Password: newPassword})
	if err != nil {
		fail(userMessage(err, "Ошибка при изменении пароля"))
		return
	}

	if err := s.sessions.UpdateProfile(r.Context(), sess.ID, updated); err != nil {
		log.Printf("profile update store error: %v", err)
	}
	render(w, "settings.html", settingsPageData{User: updated, Success: "Пароль успешно изменен"})
}
