// Package memory provides map-backed stores for tests and ephemeral servers.
// Nothing is persisted; contents are lost when the process exits.
package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/sagarc03/iconbox"
)

// Directory is an in-memory iconbox.DirectoryStore. List returns names sorted
// ascending.
type Directory struct {
	sync.RWMutex
	entries map[string]string
}

func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]string)}
}

func (d *Directory) Put(ctx context.Context, name, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.Lock()
	defer d.Unlock()
	d.entries[name] = filename
	return nil
}

func (d *Directory) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.RLock()
	defer d.RUnlock()
	filename, ok := d.entries[name]
	if !ok {
		return "", iconbox.ErrNotFound
	}
	return filename, nil
}

func (d *Directory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.RLock()
	defer d.RUnlock()
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// MetaDataRepo is an in-memory iconbox.MetaDataRepo.
type MetaDataRepo struct {
	sync.RWMutex
	entries map[string]iconbox.ObjectMeta
	now     func() time.Time
}

func NewMetaDataRepo() *MetaDataRepo {
	return &MetaDataRepo{
		entries: make(map[string]iconbox.ObjectMeta),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MetaDataRepo) Get(ctx context.Context, key string) (iconbox.ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return iconbox.ObjectMeta{}, err
	}
	r.RLock()
	defer r.RUnlock()
	m, ok := r.entries[key]
	if !ok {
		return iconbox.ObjectMeta{}, iconbox.ErrNotFound
	}
	return m, nil
}

func (r *MetaDataRepo) Upsert(ctx context.Context, entry iconbox.ObjectMeta) (iconbox.ObjectMeta, bool, error) {
	if err := ctx.Err(); err != nil {
		return iconbox.ObjectMeta{}, false, err
	}
	r.Lock()
	defer r.Unlock()

	now := r.now()
	existing, found := r.entries[entry.Key]
	entry.CreatedAt = now
	if found {
		entry.CreatedAt = existing.CreatedAt
	}
	entry.UpdatedAt = now
	r.entries[entry.Key] = entry

	return entry, !found, nil
}

func (r *MetaDataRepo) List(ctx context.Context) ([]iconbox.ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.RLock()
	defer r.RUnlock()
	items := make([]iconbox.ObjectMeta, 0, len(r.entries))
	for _, m := range r.entries {
		items = append(items, m)
	}
	slices.SortFunc(items, func(a, b iconbox.ObjectMeta) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return items, nil
}

// FileStorage is an in-memory iconbox.FileStorage. Etags are sha256 hex digests,
// matching the filesystem backend.
type FileStorage struct {
	sync.RWMutex
	files map[string][]byte
}

func NewFileStorage() *FileStorage {
	return &FileStorage{files: make(map[string][]byte)}
}

type readSeekNopCloser struct {
	io.ReadSeeker
}

func (readSeekNopCloser) Close() error { return nil }

func (s *FileStorage) Get(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.RLock()
	defer s.RUnlock()
	data, ok := s.files[key]
	if !ok {
		return nil, iconbox.ErrNotFound
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

func (s *FileStorage) Write(ctx context.Context, key string, content io.Reader) (iconbox.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return iconbox.SaveResult{}, err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return iconbox.SaveResult{}, fmt.Errorf("could not read contents: %w", err)
	}

	sum := sha256.Sum256(data)

	s.Lock()
	s.files[key] = data
	s.Unlock()

	return iconbox.SaveResult{BytesWritten: int64(len(data)), Etag: hex.EncodeToString(sum[:])}, nil
}

func (s *FileStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	if _, ok := s.files[key]; !ok {
		return iconbox.ErrNotFound
	}
	delete(s.files, key)
	return nil
}

func (s *FileStorage) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	data, ok := s.files[from]
	if !ok {
		return iconbox.ErrNotFound
	}
	s.files[to] = data
	delete(s.files, from)
	return nil
}
