package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/session"
)

// RequireSession rejects requests without a valid session cookie with 401.
// The body is not read before the check.
func RequireSession(m session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasSession(r, m) {
				HandleError(w, iconbox.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasSession(r *http.Request, m session.Manager) bool {
	return session.Check(strings.Join(r.Header.Values("Cookie"), "; "), m)
}

// RequestLogger logs one line per request with its status and duration.
// Server errors log at error level, client errors at warn.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
			}

			switch {
			case status >= 500:
				logger.Error("request completed with error", attrs...)
			case status >= 400:
				logger.Warn("request completed with client error", attrs...)
			default:
				logger.Info("request completed", attrs...)
			}
		})
	}
}
