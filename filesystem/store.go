// Package filesystem stores icon blobs as plain files under one directory.
// Writes go to a hidden temp file and are renamed into place, so readers never
// see a partially written icon.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/iconbox"
)

// Store is an iconbox.FileStorage rooted at a single directory. All access
// goes through os.Root, which rejects paths escaping the directory.
type Store struct {
	root *os.Root
}

func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Open opens dir as an os.Root, creating it first if needed.
func Open(dir string) (*Store, *os.Root, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("open storage %s: %w", dir, err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage %s: %w", dir, err)
	}
	return NewFileStorage(root), root, nil
}

// Get opens the blob stored under key. Returns iconbox.ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, iconbox.ErrNotFound
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write replaces the blob under key with content. The sha256 of the content
// becomes the etag. A cancelled ctx aborts the copy and leaves the previous
// blob in place.
func (s *Store) Write(ctx context.Context, key string, content io.Reader) (iconbox.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return iconbox.SaveResult{}, err
	}

	tmp := tempName()
	f, err := s.root.Create(tmp)
	if err != nil {
		return iconbox.SaveResult{}, fmt.Errorf("create temp file: %w", err)
	}

	renamed := false
	defer func() {
		if closeErr := f.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			slog.Warn("failed to close temp file", "file", tmp, "err", closeErr)
		}
		if renamed {
			return
		}
		if rmErr := s.root.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove temp file", "file", tmp, "err", rmErr)
		}
	}()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(h, f), &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return iconbox.SaveResult{}, fmt.Errorf("copy blob %s: %w", key, err)
	}

	if err := f.Sync(); err != nil {
		return iconbox.SaveResult{}, fmt.Errorf("sync blob %s: %w", key, err)
	}

	if dir := filepath.Dir(key); dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return iconbox.SaveResult{}, fmt.Errorf("create directories for %s: %w", key, err)
		}
	}

	if err := s.root.Rename(tmp, key); err != nil {
		return iconbox.SaveResult{}, fmt.Errorf("rename blob %s: %w", key, err)
	}
	renamed = true

	return iconbox.SaveResult{BytesWritten: n, Etag: hex.EncodeToString(h.Sum(nil))}, nil
}

// Delete removes the blob under key. Returns iconbox.ErrNotFound if absent.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return iconbox.ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// Rename moves the blob at from to to, replacing any blob at to. Returns
// iconbox.ErrNotFound if from is absent.
func (s *Store) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(to); dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directories for %s: %w", to, err)
		}
	}

	if err := s.root.Rename(from, to); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return iconbox.ErrNotFound
		}
		return fmt.Errorf("rename blob %s: %w", to, err)
	}
	return nil
}

// Scan walks the storage directory and describes every blob on disk, for
// rebuilding metadata after the database was lost. Hidden files, which
// include in-flight temp files, are skipped. Content type is guessed from
// the file extension.
func (s *Store) Scan(ctx context.Context) ([]iconbox.ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found []iconbox.ObjectMeta
	if err := s.scanDir(ctx, ".", &found); err != nil {
		return nil, fmt.Errorf("scan storage: %w", err)
	}
	return found, nil
}

func (s *Store) scanDir(ctx context.Context, dir string, found *[]iconbox.ObjectMeta) error {
	entries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		key := filepath.ToSlash(filepath.Join(dir, entry.Name()))
		if entry.IsDir() {
			if err := s.scanDir(ctx, key, found); err != nil {
				return err
			}
			continue
		}

		meta, err := s.describe(key)
		if err != nil {
			return err
		}
		*found = append(*found, meta)
	}

	return nil
}

func (s *Store) describe(key string) (iconbox.ObjectMeta, error) {
	f, err := s.root.Open(key)
	if err != nil {
		return iconbox.ObjectMeta{}, fmt.Errorf("open %s: %w", key, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "key", key, "err", closeErr)
		}
	}()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return iconbox.ObjectMeta{}, fmt.Errorf("hash %s: %w", key, err)
	}

	return iconbox.ObjectMeta{
		Key:           key,
		ContentType:   contentTypeFor(key),
		Etag:          hex.EncodeToString(h.Sum(nil)),
		FileSizeBytes: n,
	}, nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func tempName() string {
	return ".t" + uuid.NewString()
}
