package iconbox

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"
)

const (
	// ManifestName is the fixed label of the icon manifest.
	ManifestName = "Asonlino icon"
	// ManifestDescription is the fixed description of the icon manifest.
	ManifestDescription = "By Asonlino"

	// IconContentType is recorded for every stored icon blob.
	IconContentType = "image/png"
)

// Icon is a directory record mapping an icon name to its stored filename.
type Icon struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
}

// ManifestIcon is a single entry of the public manifest.
type ManifestIcon struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Manifest is the JSON document served by the directory endpoint.
type Manifest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icons       []ManifestIcon `json:"icons"`
}

// NewManifest builds the manifest for icons, resolving file URLs against origin
// (scheme and host, without a trailing slash).
func NewManifest(origin string, icons []Icon) Manifest {
	items := make([]ManifestIcon, 0, len(icons))
	for _, icon := range icons {
		items = append(items, ManifestIcon{
			Name: icon.Name,
			URL:  origin + "/file/" + icon.Filename,
		})
	}

	return Manifest{
		Name:        ManifestName,
		Description: ManifestDescription,
		Icons:       items,
	}
}

// ObjectMeta is the metadata recorded for a blob at write time.
type ObjectMeta struct {
	Key           string    `json:"key"`
	ContentType   string    `json:"content_type"`
	Etag          string    `json:"etag"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Object is a stored blob opened for reading. The caller must close Body.
type Object struct {
	ObjectMeta
	Body io.ReadCloser
}

type SaveResult struct {
	BytesWritten int64
	Etag         string
}

// Tables holds configurable table names for the SQL backends.
type Tables struct {
	Objects string `mapstructure:"objects"`
	Icons   string `mapstructure:"icons"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set, valid and distinct.
func (t Tables) Validate() error {
	if t.Objects == "" {
		return errors.New("validate tables: objects table name cannot be empty")
	}
	if t.Icons == "" {
		return errors.New("validate tables: icons table name cannot be empty")
	}

	for _, name := range []string{t.Objects, t.Icons} {
		if !IsValidTableName(name) {
			return fmt.Errorf("validate tables: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
		}
	}

	if t.Objects == t.Icons {
		return fmt.Errorf("validate tables: objects and icons tables must differ: %s", t.Objects)
	}

	return nil
}
