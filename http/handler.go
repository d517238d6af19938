package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/session"
)

type Service interface {
	Upload(ctx context.Context, name string, content io.Reader) (iconbox.Icon, error)
	List(ctx context.Context) ([]iconbox.Icon, error)
	Open(ctx context.Context, filename string) (iconbox.Object, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// Secret is the administrator password checked at login.
	Secret string
	// Sessions mints and checks the auth_token cookie. Nil means
	// session.Plain over Secret.
	Sessions session.Manager
	// MaxUploadSize caps the upload request body in bytes. Zero means no cap.
	MaxUploadSize int64
	CORS          CORSConfig
	// Logger receives one line per request. Nil disables request logging.
	Logger *slog.Logger
}

// Handler serves the login and upload pages, the upload API, the public
// manifest and stored icon files.
type Handler struct {
	config  HandlerConfig
	service Service
}

const (
	cacheControl        = "public, max-age=31536000"
	multipartMemory     = 32 << 20
	fileNotFoundMessage = "Image not found"
)

func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.Sessions == nil {
		cfg.Sessions = session.Plain{Secret: cfg.Secret}
	}
	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns the route table. Any path or verb not listed gets 404,
// except /auth/login which answers 405 for verbs other than POST.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if h.config.Logger != nil {
		r.Use(RequestLogger(h.config.Logger))
	}
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(h.handleNotFound)
	r.MethodNotAllowed(h.handleNotFound)

	// Routes match on path alone; each handler decides what a verb means.
	r.HandleFunc("/", h.handleIndex)
	r.HandleFunc("/auth/login", h.handleLogin)
	r.With(RequireSession(h.config.Sessions)).HandleFunc("/api/upload", h.handleUpload)
	r.HandleFunc("/api/icon", h.handleManifest)
	r.HandleFunc("/file/*", h.handleFile)

	return r
}

func (h *Handler) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeNotFound(w)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if hasSession(r, h.config.Sessions) {
		writeHTML(w, http.StatusOK, uploadView)
		return
	}
	writeHTML(w, http.StatusOK, loginView)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	password := r.PostFormValue("password")
	if h.config.Secret == "" || subtle.ConstantTimeCompare([]byte(password), []byte(h.config.Secret)) != 1 {
		slog.Warn("login rejected", "remote", r.RemoteAddr)
		HandleError(w, fmt.Errorf("login: %w", iconbox.ErrForbidden))
		return
	}

	token, err := h.config.Sessions.Issue()
	if err != nil {
		HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusFound)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		HandleError(w, fmt.Errorf("upload: parse form: %w: %w", iconbox.ErrInvalidInput, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var content io.Reader
	file, _, err := r.FormFile("file")
	if err == nil {
		defer func() { _ = file.Close() }()
		content = file
	} else if !errors.Is(err, http.ErrMissingFile) {
		HandleError(w, fmt.Errorf("upload: read file: %w: %w", iconbox.ErrInvalidInput, err))
		return
	}

	icon, err := h.service.Upload(r.Context(), r.FormValue("name"), content)
	if err != nil {
		HandleError(w, err)
		return
	}

	slog.Info("icon uploaded", "name", icon.Name, "filename", icon.Filename)

	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (h *Handler) handleManifest(w http.ResponseWriter, r *http.Request) {
	icons, err := h.service.List(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := WriteJSON(w, http.StatusOK, iconbox.NewManifest(requestOrigin(r), icons)); err != nil {
		slog.Error("failed to encode manifest", "error", err)
	}
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "*")

	obj, err := h.service.Open(r.Context(), filename)
	if err != nil {
		if errors.Is(err, iconbox.ErrNotFound) {
			WriteError(w, http.StatusNotFound, fileNotFoundMessage)
			return
		}
		HandleError(w, err)
		return
	}
	defer func() { _ = obj.Body.Close() }()

	header := w.Header()
	header.Set("Content-Type", obj.ContentType)
	header.Set("ETag", `"`+obj.Etag+`"`)
	header.Set("Cache-Control", cacheControl)
	if obj.FileSizeBytes > 0 {
		header.Set("Content-Length", strconv.FormatInt(obj.FileSizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Warn("failed to stream icon", "filename", filename, "error", err)
	}
}

// requestOrigin is scheme://host as seen by the client. The scheme comes from
// TLS or X-Forwarded-Proto.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
