package model

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// User.status values as the backend transmits them. "ASSISTENT" is the
// historical wire spelling and must not be corrected here.
const (
	StatusStudent   = "STUDENT"
	StatusTeacher   = "TEACHER"
	StatusAssistent = "ASSISTENT"
)

var Statuses = []string{StatusStudent, StatusTeacher, StatusAssistent}

// Profile is the user record cached alongside the access token. Email is the
// identity for the lifetime of a session; the display fields are mutable.
type Profile struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Status      string `json:"status"`
	Description string `json:"description"`
	AccessToken string `json:"access_token"`
}

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// StatusLabel returns the display name for a status value.
func StatusLabel(status string) string {
	switch status {
	case StatusStudent:
		return "Студент"
	case StatusTeacher:
		return "Учитель"
	case StatusAssistent:
		return "Поддержка"
	default:
		return status
	}
}

// ProfileUpdate carries the fields of a PATCH. Empty strings mean "not
// changed" and are never transmitted.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Description string
	Password    string
}

func (u ProfileUpdate) Empty() bool {
	return u.FirstName == "" && u.LastName == "" && u.Description == "" && u.Password == ""
}

// ValidationError is a local form-constraint violation. It is raised before
// any gateway call and never reaches the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validation bounds mirror the backend so obviously bad input is rejected
// without a round-trip. Lengths are counted in characters, not bytes: a
// Cyrillic name takes two bytes per letter and must not be measured as such.
const (
	emailMaxLen       = 255
	nameMinLen        = 2
	nameMaxLen        = 64
	PasswordMinLen    = 8
	PasswordMaxLen    = 32
	descriptionMaxLen = 1024
)

var emailRegexp = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

func ValidateEmail(email string) error {
	if email == "" || utf8.RuneCountInString(email) > emailMaxLen || !emailRegexp.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Некорректный email"}
	}
	return nil
}

func ValidateFirstName(name string) error {
	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		return &ValidationError{Field: "first_name", Message: "Имя должно быть от 2 до 64 символов"}
	}
	return nil
}

func ValidateLastName(name string) error {
	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		return &ValidationError{Field: "last_name", Message: "Фамилия должна быть от 2 до 64 символов"}
	}
	return nil
}

func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		return &ValidationError{Field: "password", Message: "Пароль должен быть от 8 до 32 символов"}
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > descriptionMaxLen {
		return &ValidationError{Field: "description", Message: "Описание не должно превышать 1024 символа"}
	}
	return nil
}

func ValidateStatus(status string) error {
	for _, s := range Statuses {
		if s == status {
			return nil
		}
	}
	return &ValidationError{Field: "status", Message: "Неизвестный статус"}
}
