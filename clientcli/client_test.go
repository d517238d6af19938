package clientcli_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/clientcli"
	iconhttp "github.com/sagarc03/iconbox/http"
	"github.com/sagarc03/iconbox/imaging"
	"github.com/sagarc03/iconbox/memory"
)

const testPassword = "s3cret"

// newIconServer runs the real handler over memory stores.
func newIconServer(t *testing.T) *httptest.Server {
	t.Helper()
	objects := iconbox.NewBlobStore(memory.NewMetaDataRepo(), memory.NewFileStorage(), iconbox.BlobStoreConfig{})
	service := iconbox.NewIconService(objects, memory.NewDirectory())
	handler := iconhttp.NewHandler(&iconhttp.HandlerConfig{Secret: testPassword}, service)

	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, endpoint, password string) *clientcli.Client {
	t.Helper()
	client, err := clientcli.New(&clientcli.Config{Endpoint: endpoint, Password: password})
	require.NoError(t, err)
	return client
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("empty endpoint uses default", func(t *testing.T) {
		client := newClient(t, "", "")
		assert.Equal(t, clientcli.DefaultEndpoint, client.Endpoint())
	})

	t.Run("trailing slash removed", func(t *testing.T) {
		client := newClient(t, "http://localhost:8080/", "")
		assert.Equal(t, "http://localhost:8080", client.Endpoint())
	})

	t.Run("custom http client left unchanged", func(t *testing.T) {
		srv := newIconServer(t)
		custom := &http.Client{}

		client, err := clientcli.New(
			&clientcli.Config{Endpoint: srv.URL, Password: testPassword},
			clientcli.WithHTTPClient(custom),
		)
		require.NoError(t, err)
		require.NoError(t, client.Login(context.Background()))

		assert.Nil(t, custom.Jar)
		assert.Nil(t, custom.CheckRedirect)
	})
}

func TestClient_Login(t *testing.T) {
	srv := newIconServer(t)

	t.Run("accepted", func(t *testing.T) {
		assert.NoError(t, newClient(t, srv.URL, testPassword).Login(context.Background()))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := newClient(t, srv.URL, "guess").Login(context.Background())
		assert.ErrorIs(t, err, clientcli.ErrForbidden)
	})

	t.Run("no password", func(t *testing.T) {
		err := newClient(t, srv.URL, "").Login(context.Background())
		assert.ErrorIs(t, err, clientcli.ErrPasswordRequired)
	})
}

func TestClient_UploadManifestDownload(t *testing.T) {
	srv := newIconServer(t)
	client := newClient(t, srv.URL, testPassword)
	ctx := context.Background()
	dir := t.TempDir()

	src := writePNG(t, dir, "red-apple_2.png", 20, 10)

	result, err := client.Upload(ctx, clientcli.UploadOptions{LocalPath: src})
	require.NoError(t, err)
	assert.Equal(t, "redapple", result.Name)
	assert.Equal(t, srv.URL+"/file/redapple.png", result.URL)
	assert.True(t, result.Normalized)

	manifest, err := client.Manifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, iconbox.ManifestName, manifest.Name)
	require.Len(t, manifest.Icons, 1)
	assert.Equal(t, result.URL, manifest.Icons[0].URL)

	dst := filepath.Join(dir, "out", "apple.png")
	downloaded, body, err := client.Download(ctx, clientcli.DownloadOptions{Name: "redapple", LocalPath: dst})
	require.NoError(t, err)
	assert.Nil(t, body)
	assert.Equal(t, "redapple.png", downloaded.Filename)
	assert.Equal(t, "image/png", downloaded.ContentType)
	assert.Equal(t, result.Size, downloaded.Size)
	assert.NotEmpty(t, downloaded.ETag)

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, imaging.Size, cfg.Width)
	assert.Equal(t, imaging.Size, cfg.Height)
}

func TestClient_UploadRaw(t *testing.T) {
	srv := newIconServer(t)
	client := newClient(t, srv.URL, testPassword)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o600))

	result, err := client.Upload(ctx, clientcli.UploadOptions{LocalPath: src, Name: "Banana", Raw: true})
	require.NoError(t, err)
	assert.False(t, result.Normalized)
	assert.Equal(t, int64(len("not an image")), result.Size)

	_, body, err := client.Download(ctx, clientcli.DownloadOptions{Name: "Banana.png", LocalPath: "-"})
	require.NoError(t, err)
	defer func() { _ = body.Close() }()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "not an image", string(data))
}

func TestClient_UploadErrors(t *testing.T) {
	srv := newIconServer(t)
	ctx := context.Background()
	dir := t.TempDir()
	src := writePNG(t, dir, "apple.png", 4, 4)

	t.Run("no path", func(t *testing.T) {
		_, err := newClient(t, srv.URL, testPassword).Upload(ctx, clientcli.UploadOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyPath)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := newClient(t, srv.URL, testPassword).Upload(ctx, clientcli.UploadOptions{LocalPath: src, Name: "app1e"})
		assert.ErrorIs(t, err, clientcli.ErrInvalidName)
	})

	t.Run("name derived empty", func(t *testing.T) {
		path := writePNG(t, dir, "123.png", 4, 4)
		_, err := newClient(t, srv.URL, testPassword).Upload(ctx, clientcli.UploadOptions{LocalPath: path})
		assert.ErrorIs(t, err, clientcli.ErrInvalidName)
	})

	t.Run("undecodable image", func(t *testing.T) {
		path := filepath.Join(dir, "junk.png")
		require.NoError(t, os.WriteFile(path, []byte("junk"), 0o600))

		_, err := newClient(t, srv.URL, testPassword).Upload(ctx, clientcli.UploadOptions{LocalPath: path})
		assert.ErrorIs(t, err, iconbox.ErrInvalidInput)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := newClient(t, srv.URL, "guess").Upload(ctx, clientcli.UploadOptions{LocalPath: src})
		assert.ErrorIs(t, err, clientcli.ErrForbidden)
	})

	t.Run("server rejects upload", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login" {
				w.Header().Set("Location", "/")
				w.WriteHeader(http.StatusFound)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Internal Server Error"))
		}))
		defer failing.Close()

		_, err := newClient(t, failing.URL, testPassword).Upload(ctx, clientcli.UploadOptions{LocalPath: src})
		require.Error(t, err)

		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "Internal Server Error", apiErr.Body)
	})
}

func TestClient_Download(t *testing.T) {
	srv := newIconServer(t)
	client := newClient(t, srv.URL, "")

	t.Run("missing icon", func(t *testing.T) {
		_, _, err := client.Download(context.Background(), clientcli.DownloadOptions{Name: "ghost"})
		require.Error(t, err)
		assert.ErrorIs(t, err, clientcli.ErrNotFound)

		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNotFound())
		assert.Equal(t, "Image not found", apiErr.Body)
	})

	t.Run("empty name", func(t *testing.T) {
		_, _, err := client.Download(context.Background(), clientcli.DownloadOptions{})
		assert.ErrorIs(t, err, clientcli.ErrInvalidName)
	})
}

func TestClient_ManifestEmpty(t *testing.T) {
	srv := newIconServer(t)

	manifest, err := newClient(t, srv.URL, "").Manifest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, manifest.Icons)
	assert.Equal(t, iconbox.ManifestDescription, manifest.Description)
}

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"apple.png", "apple"},
		{"/tmp/icons/Banana.jpg", "Banana"},
		{"my-icon_2.webp", "myicon"},
		{"123.png", ""},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, clientcli.NameFromPath(tt.path))
		})
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "abcXYZ", clientcli.SanitizeName("a b-c_X1Y2Z!"))
	assert.Equal(t, "", clientcli.SanitizeName("ñ ü 42"))
}
