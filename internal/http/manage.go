package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

type managePageData struct {
	User              model.Profile
	Error             string
	Success           string
	GeneratedPassword string
	Form              createUserForm
	Statuses          []string
}

type createUserForm struct {
	Email     string
	FirstName string
	LastName  string
	Status    string
}

func (s *Server) handleManagePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}

	// The generated password is a one-shot read: rendering it here removes
	// it, so a reload or any later action never shows it again.
	password, err := s.flash.TakePassword(r.Context(), sess.ID)
	if err != nil {
		log.Printf("password flash read error: %v", err)
		password = ""
	}

	data := managePageData{
		User:              profile,
		GeneratedPassword: password,
		Form:              createUserForm{Status: model.StatusStudent},
		Statuses:          model.Statuses,
	}
	if password != "" {
		data.Success = "Пользователь успешно создан"
	}
	render(w, "manage.html", data)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}

	form := createUserForm{
		Email:     strings.TrimSpace(r.FormValue("email")),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Status:    r.FormValue("status"),
	}
	fail := func(message string) {
		render(w, "manage.html", managePageData{
			User:     profile,
			Error:    message,
			Form:     form,
			Statuses: model.Statuses,
		})
	}

	for _, err := range []error{
		model.ValidateEmail(form.Email),
		model.ValidateFirstName(form.FirstName),
		model.ValidateLastName(form.LastName),
		model.ValidateStatus(form.Status),
	} {
		if err != nil {
			var ve *model.ValidationError
			if errors.As(err, &ve) {
				fail(ve.Message)
			} else {
				fail("Неверные параметры")
			}
			return
		}
	}

	if !s.locks.tryAcquire(r.Context(), sess.ID, "create_user") {
		fail("Запрос уже выполняется")
		return
	}
	defer s.locks.release(r.Context(), sess.ID, "create_user")

	_, password, err := s.api.CreateUser(r.Context(), form.Email, form.FirstName, form.LastName, form.Status, sess.Token)
	if err != nil {
		fail(userMessage(err, "Ошибка при создании пользователя"))
		return
	}

	if err := s.flash.PutPassword(r.Context(), sess.ID, password); err != nil {
		log.Printf("password flash write error: %v", err)
		// Fall back to rendering it directly rather than losing it.
		render(w, "manage.html", managePageData{
			User:              profile,
			Success:           "Пользователь успешно создан",
			GeneratedPassword: password,
			Form:              createUserForm{Status: model.StatusStudent},
			Statuses:          model.Statuses,
		})
		return
	}
	// Redirect-after-post: the fresh GET shows the password exactly once.
	http.Redirect(w, r, "/manage", http.StatusSeeOther)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, ok := s.resolveProfile(w, r, sess)
	if !ok {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if err := model.ValidateEmail(email); err != nil {
		render(w, "manage.html", managePageData{
			User:     profile,
			Error:    "Некорректный email",
			Statuses: model.Statuses,
		})
		return
	}

	if !s.locks.tryAcquire(r.Context(), sess.ID, "delete_user") {
		render(w, "manage.html", managePageData{
			User:     profile,
			Error:    "Запрос уже выполняется",
			Statuses: model.Statuses,
		})
		return
	}
	defer s.locks.release(r.Context(), sess.ID, "delete_user")

	if err := s.api.DeleteUser(r.Context(), email, sess.Token); err != nil {
		render(w, "manage.html", managePageData{
			User:     profile,
			Error:    userMessage(err, "Ошибка при удалении пользователя"),
			Statuses: model.Statuses,
		})
		return
	}
	render(w, "manage.html", managePageData{
		User:     profile,
		Success:  "Пользователь " + email + " успешно удален",
		Form:     createUserForm{Status: model.StatusStudent},
		Statuses: model.Statuses,
	})
}
