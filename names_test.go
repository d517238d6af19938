package iconbox_test

import (
	"testing"

	"github.com/sagarc03/iconbox"
	"github.com/stretchr/testify/assert"
)

func TestIsValidIconName(t *testing.T) {
	tt := []struct {
		Name  string
		Input string
		Want  bool
	}{
		{Name: "lowercase", Input: "apple", Want: true},
		{Name: "uppercase", Input: "APPLE", Want: true},
		{Name: "mixed case", Input: "GitHub", Want: true},
		{Name: "single letter", Input: "a", Want: true},

		{Name: "empty", Input: "", Want: false},
		{Name: "digit", Input: "app1", Want: false},
		{Name: "space", Input: "my app", Want: false},
		{Name: "dash", Input: "my-app", Want: false},
		{Name: "underscore", Input: "my_app", Want: false},
		{Name: "extension", Input: "app.png", Want: false},
		{Name: "traversal", Input: "../etc", Want: false},
		{Name: "trailing newline", Input: "app\n", Want: false},
		{Name: "non ascii letter", Input: "café", Want: false},
		{Name: "cjk", Input: "图标", Want: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, iconbox.IsValidIconName(tc.Input))
		})
	}
}

func TestStoredFilename(t *testing.T) {
	assert.Equal(t, "apple.png", iconbox.StoredFilename("apple"))
	assert.Equal(t, "GitHub.png", iconbox.StoredFilename("GitHub"))
}

func TestIconNameFromFilename(t *testing.T) {
	tt := []struct {
		Name     string
		Filename string
		Want     string
		OK       bool
	}{
		{Name: "round trip", Filename: "apple.png", Want: "apple", OK: true},
		{Name: "mixed case", Filename: "GitHub.png", Want: "GitHub", OK: true},
		{Name: "wrong extension", Filename: "apple.jpg", OK: false},
		{Name: "no extension", Filename: "apple", OK: false},
		{Name: "invalid name", Filename: "app1e.png", OK: false},
		{Name: "only extension", Filename: ".png", OK: false},
		{Name: "uppercase extension", Filename: "apple.PNG", OK: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got, ok := iconbox.IconNameFromFilename(tc.Filename)
			assert.Equal(t, tc.OK, ok)
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestIsValidKey(t *testing.T) {
	invalidUTF8 := string([]byte{'a', 0xff, 'b'})

	tt := []struct {
		Name string
		Key  string
		Want bool
	}{
		{Name: "icon file", Key: "apple.png", Want: true},
		{Name: "other extension", Key: "notes.txt", Want: true},
		{Name: "no extension", Key: "apple", Want: true},

		{Name: "empty", Key: "", Want: false},
		{Name: "dot", Key: ".", Want: false},
		{Name: "dot dot", Key: "..", Want: false},
		{Name: "hidden", Key: ".tmpfile", Want: false},
		{Name: "slash", Key: "a/b.png", Want: false},
		{Name: "traversal", Key: "../etc/passwd", Want: false},
		{Name: "backslash", Key: `a\b.png`, Want: false},
		{Name: "space", Key: "a b.png", Want: false},
		{Name: "tab", Key: "a\tb.png", Want: false},
		{Name: "NUL", Key: "a\x00b", Want: false},
		{Name: "DEL", Key: "a\x7fb", Want: false},
		{Name: "invalid utf8", Key: invalidUTF8, Want: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, iconbox.IsValidKey(tc.Key))
		})
	}
}

func TestNewManifest(t *testing.T) {
	icons := []iconbox.Icon{
		{Name: "apple", Filename: "apple.png"},
		{Name: "Banana", Filename: "Banana.png"},
	}

	m := iconbox.NewManifest("https://icons.example.com", icons)

	assert.Equal(t, "Asonlino icon", m.Name)
	assert.Equal(t, "By Asonlino", m.Description)
	assert.Equal(t, []iconbox.ManifestIcon{
		{Name: "apple", URL: "https://icons.example.com/file/apple.png"},
		{Name: "Banana", URL: "https://icons.example.com/file/Banana.png"},
	}, m.Icons)
}

func TestNewManifest_Empty(t *testing.T) {
	m := iconbox.NewManifest("http://localhost", nil)

	assert.NotNil(t, m.Icons)
	assert.Empty(t, m.Icons)
}

func TestTables_Validate(t *testing.T) {
	tt := []struct {
		Name    string
		Tables  iconbox.Tables
		WantErr string
	}{
		{Name: "valid", Tables: iconbox.Tables{Objects: "iconbox_objects", Icons: "iconbox_icons"}},
		{Name: "missing objects", Tables: iconbox.Tables{Icons: "icons"}, WantErr: "objects table name cannot be empty"},
		{Name: "missing icons", Tables: iconbox.Tables{Objects: "objects"}, WantErr: "icons table name cannot be empty"},
		{Name: "uppercase", Tables: iconbox.Tables{Objects: "Objects", Icons: "icons"}, WantErr: "invalid table name"},
		{Name: "injection", Tables: iconbox.Tables{Objects: "objects", Icons: "icons; DROP TABLE x"}, WantErr: "invalid table name"},
		{Name: "same table", Tables: iconbox.Tables{Objects: "shared", Icons: "shared"}, WantErr: "must differ"},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Tables.Validate()
			if tc.WantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.WantErr)
		})
	}
}
