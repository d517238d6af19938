package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/clientcli"
)

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		_, ok := clientcli.NewFormatter(true, false).(*clientcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		hf, ok := clientcli.NewFormatter(false, true).(*clientcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	results := []clientcli.UploadResult{{
		LocalPath: "apple.jpg",
		Name:      "apple",
		URL:       "http://localhost:8080/file/apple.png",
		Size:      2048,
	}}

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatUpload(&buf, results))

		assert.Contains(t, buf.String(), "Uploaded: apple.jpg -> apple (2.0 KB)")
		assert.Contains(t, buf.String(), "URL: http://localhost:8080/file/apple.png")
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatUpload(&buf, results))
		assert.Empty(t, buf.String())
	})
}

func TestHumanFormatter_FormatDownload(t *testing.T) {
	var buf bytes.Buffer
	err := (&clientcli.HumanFormatter{}).FormatDownload(&buf, &clientcli.DownloadResult{
		Filename:  "apple.png",
		LocalPath: "out/apple.png",
		ETag:      "abc",
		Size:      100,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Downloaded: apple.png -> out/apple.png (100 B)")
	assert.Contains(t, buf.String(), "ETag: abc")
}

func TestHumanFormatter_FormatManifest(t *testing.T) {
	manifest := iconbox.NewManifest("http://h", []iconbox.Icon{
		{Name: "apple", Filename: "apple.png"},
		{Name: "Banana", Filename: "Banana.png"},
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatManifest(&buf, &manifest))

		output := buf.String()
		assert.Contains(t, output, "NAME")
		assert.Contains(t, output, "http://h/file/apple.png")
		assert.Contains(t, output, "2 icon(s)")
	})

	t.Run("quiet prints names only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatManifest(&buf, &manifest))
		assert.Equal(t, "apple\nBanana\n", buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		empty := iconbox.NewManifest("http://h", nil)
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatManifest(&buf, &empty))
		assert.Equal(t, "No icons found\n", buf.String())
	})
}

func TestJSONFormatter_FormatManifest(t *testing.T) {
	manifest := iconbox.NewManifest("http://h", []iconbox.Icon{{Name: "apple", Filename: "apple.png"}})

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatManifest(&buf, &manifest))

	var decoded iconbox.Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, manifest, decoded)
}

func TestFormatProfileList(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "local", Endpoint: "http://localhost:8080", Password: "pw"},
		{Name: "prod", Endpoint: "https://icons.example.com"},
	}

	t.Run("human marks default", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileList(&buf, profiles, "prod"))
		assert.Contains(t, buf.String(), "* prod")
		assert.NotContains(t, buf.String(), "pw")
	})

	t.Run("json hides password", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.JSONFormatter{}).FormatProfileList(&buf, profiles, "local"))
		assert.NotContains(t, buf.String(), `"pw"`)
		assert.Contains(t, buf.String(), `"has_password": true`)
	})
}

func TestFormatError(t *testing.T) {
	var human, js bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatError(&human, errors.New("boom")))
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatError(&js, errors.New("boom")))

	assert.Equal(t, "Error: boom\n", human.String())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded["error"])
}
