package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/imaging"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against an iconbox server. It keeps the session
// cookie from Login in its cookie jar; Upload logs in on first use.
type Client struct {
	config     *Config
	httpClient *http.Client
	loggedIn   bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses a copy of client for requests. The copy gets a cookie
// jar if client has none and never follows redirects; client itself is left
// unchanged.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		copied := *client
		c.httpClient = &copied
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Password: cfg.Password,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return c, nil
}

// Endpoint returns the server base URL without a trailing slash.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Login exchanges the configured password for a session cookie.
//
// Error types returned:
//   - ErrPasswordRequired: no password configured
//   - ErrForbidden: the server rejected the password
func (c *Client) Login(ctx context.Context) error {
	if c.config.Password == "" {
		return fmt.Errorf("login: %w", ErrPasswordRequired)
	}

	form := url.Values{"password": {c.config.Password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login: %w", parseServerError(resp.StatusCode, body))
	}

	c.loggedIn = true
	return nil
}

// Upload sends one icon. Unless opts.Raw is set the file is normalized to a
// white 108x108 PNG first, the same shape the upload page produces.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (UploadResult, error) {
	if opts.LocalPath == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	name := opts.Name
	if name == "" {
		name = NameFromPath(opts.LocalPath)
	}
	if !iconbox.IsValidIconName(name) {
		return UploadResult{}, fmt.Errorf("upload %q: %w", name, ErrInvalidName)
	}

	content, err := readIcon(opts.LocalPath, opts.Raw)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", name, err)
	}

	if !c.loggedIn {
		if err := c.Login(ctx); err != nil {
			return UploadResult{}, err
		}
	}

	body, contentType, err := multipartIcon(name, content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/api/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized {
			c.loggedIn = false
		}
		return UploadResult{}, fmt.Errorf("upload %s: %w", name, parseServerError(resp.StatusCode, respBody))
	}

	return UploadResult{
		LocalPath:  opts.LocalPath,
		Name:       name,
		URL:        c.config.Endpoint + "/file/" + iconbox.StoredFilename(name),
		Size:       int64(len(content)),
		Normalized: !opts.Raw,
	}, nil
}

// Manifest fetches the public icon manifest.
func (c *Client) Manifest(ctx context.Context) (*iconbox.Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/api/icon", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	var manifest iconbox.Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &manifest, nil
}

// Download fetches a stored icon.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.Name == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrInvalidName)
	}

	filename := opts.Name
	if iconbox.IsValidIconName(filename) {
		filename = iconbox.StoredFilename(filename)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/file/"+url.PathEscape(filename), http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		Filename:    filename,
		ETag:        strings.Trim(resp.Header.Get("ETag"), `"`),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filename
	}
	result.LocalPath = localPath

	// Create parent directories if needed
	if dir := filepath.Dir(localPath); dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// NameFromPath derives an icon name from a file path: the base name without
// extension, keeping ASCII letters only. The result may be empty.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return SanitizeName(base)
}

// SanitizeName drops every character that is not an ASCII letter.
func SanitizeName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// readIcon loads the file at path, normalizing it unless raw is set.
func readIcon(path string, raw bool) ([]byte, error) {
	f, err := os.Open(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if !raw {
		return imaging.Normalize(f)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// multipartIcon encodes the upload form: the name field and the file part.
func multipartIcon(name string, content []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("name", name); err != nil {
		return nil, "", fmt.Errorf("write name field: %w", err)
	}

	fw, err := mw.CreateFormFile("file", iconbox.StoredFilename(name))
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned for an invalid name or a missing file (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrNotFound is returned when the requested icon does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the session cookie is missing or stale (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the server rejects the password (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
