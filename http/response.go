package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sagarc03/iconbox"
)

// WriteError writes a plain text error body.
func WriteError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, message)
}

// HandleError maps err to a fixed status and body and writes it.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, iconbox.ErrInvalidInput):
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid name or missing file")
	case errors.Is(err, iconbox.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, iconbox.ErrForbidden):
		writeHTML(w, http.StatusForbidden, wrongPasswordHTML)
	case errors.Is(err, iconbox.ErrNotFound):
		WriteError(w, http.StatusNotFound, "404 Not Found")
	case errors.Is(err, iconbox.ErrNotConfigured):
		slog.Error("store binding missing", "error", err)
		WriteError(w, http.StatusInternalServerError, "Server Configuration Error: object store not bound")
	default:
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// WriteJSON writes data as two-space indented JSON.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
