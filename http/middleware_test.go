package http_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	iconhttp "github.com/sagarc03/iconbox/http"
	"github.com/sagarc03/iconbox/session"
	"github.com/stretchr/testify/assert"
)

func TestRequireSession(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	wrapped := iconhttp.RequireSession(session.Plain{Secret: "s3cret"})(next)

	t.Run("no cookie", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/upload", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("cookie split across headers", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
		req.Header.Add("Cookie", "theme=dark")
		req.Header.Add("Cookie", "auth_token=s3cret")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := iconhttp.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/file/apple.png", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/file/apple.png"`)
}
