package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/team8-2025-2026/AiAgents/internal/backend"
)

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// userMessage turns a gateway outcome into the message shown in the view.
// Transport failures all collapse into the connectivity message; business
// rejections surface the backend's own wording.
func userMessage(err error, fallback string) string {
	var businessErr *backend.BusinessError
	if errors.As(err, &businessErr) {
		if businessErr.Message != "" {
			return businessErr.Message
		}
		return fallback
	}
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return "Ошибка подключения к серверу"
	}
	return fallback
}

func isBusinessError(err error) bool {
	var businessErr *backend.BusinessError
	return errors.As(err, &businessErr)
}
