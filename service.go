package iconbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// IconService implements icon upload, listing and file resolution over an
// ObjectStore and a DirectoryStore. It holds no state between calls; every
// operation resolves its data from the stores.
//
// The two stores are written without a transaction. A failed or interleaved
// upload can leave a blob without a mapping or a mapping pointing at an older
// blob; a retried upload of the same name repairs both.
type IconService struct {
	objects   ObjectStore
	directory DirectoryStore
}

// NewIconService creates an IconService. Either store may be nil; operations
// that need a missing store fail with ErrNotConfigured.
func NewIconService(objects ObjectStore, directory DirectoryStore) *IconService {
	return &IconService{
		objects:   objects,
		directory: directory,
	}
}

// Upload stores content as the icon called name. The name is validated before
// any write. The blob is written first, then the directory mapping; the upload
// succeeds only if both writes succeed. Uploading an existing name replaces
// both the blob and the mapping.
//
// Error types returned:
//   - ErrInvalidInput: name is not one or more ASCII letters, or content is nil
//   - ErrNotConfigured: a store binding is missing
//   - Wrapped store errors
func (s *IconService) Upload(ctx context.Context, name string, content io.Reader) (Icon, error) {
	if err := ctx.Err(); err != nil {
		return Icon{}, fmt.Errorf("upload icon: %w", err)
	}

	if !IsValidIconName(name) {
		return Icon{}, fmt.Errorf("upload icon %q: %w: name must contain letters only", name, ErrInvalidInput)
	}

	if content == nil {
		return Icon{}, fmt.Errorf("upload icon %s: %w: missing file", name, ErrInvalidInput)
	}

	if s.objects == nil || s.directory == nil {
		return Icon{}, fmt.Errorf("upload icon %s: %w", name, ErrNotConfigured)
	}

	filename := StoredFilename(name)

	meta, err := s.objects.Put(ctx, filename, IconContentType, content)
	if err != nil {
		return Icon{}, fmt.Errorf("upload icon %s: %w", name, err)
	}

	if err := s.directory.Put(ctx, name, filename); err != nil {
		return Icon{}, fmt.Errorf("upload icon %s: blob stored but mapping failed: %w", name, err)
	}

	slog.Debug("icon stored", "name", name, "key", filename, "etag", meta.Etag, "size", meta.FileSizeBytes)

	return Icon{Name: name, Filename: filename}, nil
}

// List returns every icon currently in the directory, in the directory's
// enumeration order. A name removed between enumeration and lookup is skipped.
func (s *IconService) List(ctx context.Context) ([]Icon, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list icons: %w", err)
	}

	if s.directory == nil {
		return nil, fmt.Errorf("list icons: %w", ErrNotConfigured)
	}

	names, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list icons: %w", err)
	}

	icons := make([]Icon, 0, len(names))
	for _, name := range names {
		filename, getErr := s.directory.Get(ctx, name)
		if errors.Is(getErr, ErrNotFound) {
			continue
		}
		if getErr != nil {
			return nil, fmt.Errorf("list icons: %s: %w", name, getErr)
		}
		icons = append(icons, Icon{Name: name, Filename: filename})
	}

	return icons, nil
}

// Open fetches a stored blob by filename.
//
// Error types returned:
//   - ErrNotConfigured: no object store binding
//   - ErrNotFound: filename is not a valid key or has no blob
func (s *IconService) Open(ctx context.Context, filename string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, fmt.Errorf("open icon: %w", err)
	}

	if s.objects == nil {
		return Object{}, fmt.Errorf("open icon: %w", ErrNotConfigured)
	}

	if !IsValidKey(filename) {
		return Object{}, fmt.Errorf("open icon %q: %w", filename, ErrNotFound)
	}

	obj, err := s.objects.Get(ctx, filename)
	if err != nil {
		return Object{}, fmt.Errorf("open icon: %w", err)
	}

	return obj, nil
}

// Reindex rebuilds directory mappings from the object store. Every object whose
// key is "<letters>.png" gets a name -> key mapping; other keys are ignored.
// Existing mappings are overwritten with the same value.
//
// This is typically used after the directory was lost or when pointing a fresh
// directory at existing blobs. It stops at the first error; mappings written
// before the error are kept.
func (s *IconService) Reindex(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}

	if s.objects == nil || s.directory == nil {
		return 0, fmt.Errorf("reindex: %w", ErrNotConfigured)
	}

	objects, err := s.objects.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}

	indexed := 0
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return indexed, fmt.Errorf("reindex: %w", err)
		}

		name, ok := IconNameFromFilename(obj.Key)
		if !ok {
			slog.Debug("reindex: skipping key", "key", obj.Key)
			continue
		}

		if err := s.directory.Put(ctx, name, obj.Key); err != nil {
			return indexed, fmt.Errorf("reindex '%s': %w", obj.Key, err)
		}
		indexed++
	}

	return indexed, nil
}
