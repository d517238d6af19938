package iconbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// MetaDataRepo defines the interface for persisting blob metadata.
// Implementations must handle concurrent access safely; a single Upsert or Get
// is expected to be atomic.
type MetaDataRepo interface {
	// Get retrieves metadata for a blob by its key.
	//
	// Returns:
	//   - ObjectMeta: The metadata entry if found
	//   - error: ErrNotFound if key doesn't exist, or other database errors
	Get(ctx context.Context, key string) (ObjectMeta, error)

	// Upsert creates or replaces metadata for a blob. CreatedAt is preserved
	// on replacement, UpdatedAt is refreshed.
	//
	// Returns:
	//   - ObjectMeta: The stored entry with timestamps
	//   - bool: true if a new entry was created, false if an existing entry was replaced
	//   - error: Any database error
	Upsert(ctx context.Context, entry ObjectMeta) (ObjectMeta, bool, error)

	// List returns metadata for every stored blob ordered by key.
	List(ctx context.Context) ([]ObjectMeta, error)
}

// FileStorage defines the interface for physical blob storage.
//
// Implementations should respect context cancellation during long-running
// writes and reads.
type FileStorage interface {
	// Get opens a blob for reading. Returns ErrNotFound if it does not exist.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, key string) (io.ReadSeekCloser, error)

	// Write stores content under key, replacing any previous blob.
	// Implementations should write atomically and compute the etag while writing.
	Write(ctx context.Context, key string, content io.Reader) (SaveResult, error)

	// Delete removes a blob. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, key string) error

	// Rename moves the blob at from to to, replacing any blob already at to.
	// Returns ErrNotFound if from does not exist.
	Rename(ctx context.Context, from, to string) error
}

// ObjectStore is binary blob storage addressed by key, with content type and
// etag recorded at write time and echoed at read time.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, content io.Reader) (ObjectMeta, error)
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (Object, error)
	List(ctx context.Context) ([]ObjectMeta, error)
}

// DirectoryStore is the string to string mapping from icon name to stored filename.
type DirectoryStore interface {
	// Put creates or replaces the mapping for name.
	Put(ctx context.Context, name, filename string) error
	// Get returns ErrNotFound when name has no mapping.
	Get(ctx context.Context, name string) (string, error)
	// List returns every mapped name in store enumeration order.
	List(ctx context.Context) ([]string, error)
}

// BlobStore is an ObjectStore combining a metadata repository with file storage.
type BlobStore struct {
	repo           MetaDataRepo
	storage        FileStorage
	cleanupTimeout time.Duration
}

// BlobStoreConfig holds configuration options for BlobStore.
type BlobStoreConfig struct {
	CleanupTimeout time.Duration // Timeout for removing orphaned blobs (default: 30s)
}

func NewBlobStore(repo MetaDataRepo, storage FileStorage, cfg BlobStoreConfig) *BlobStore {
	cleanupTimeout := cfg.CleanupTimeout
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}
	return &BlobStore{
		repo:           repo,
		storage:        storage,
		cleanupTimeout: cleanupTimeout,
	}
}

// Put stores content under key and records its metadata.
//
// The blob is written under a hidden staging key and only renamed over key
// once the metadata is committed, so a failed put leaves any previous blob
// and metadata for key as they were. Staging cleanup, and the rename after a
// successful commit, use a background context bounded by the cleanup timeout
// so they complete even if ctx was cancelled.
//
// Error types returned:
//   - ErrInvalidInput: key fails IsValidKey or content type is empty
//   - context.Canceled or context.DeadlineExceeded: ctx was cancelled
//   - Wrapped storage or metadata errors
func (s *BlobStore) Put(ctx context.Context, key, contentType string, content io.Reader) (ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return ObjectMeta{}, fmt.Errorf("put object: %w", err)
	}

	if !IsValidKey(key) {
		return ObjectMeta{}, fmt.Errorf("put object %q: %w", key, ErrInvalidInput)
	}

	if contentType == "" {
		return ObjectMeta{}, fmt.Errorf("put object %s: %w: content type cannot be empty", key, ErrInvalidInput)
	}

	staging := stagingKey()
	saveResult, writeErr := s.storage.Write(ctx, staging, content)
	if writeErr != nil {
		return ObjectMeta{}, fmt.Errorf("put object %s: write failed: %w", key, writeErr)
	}

	prev, prevErr := s.repo.Get(ctx, key)
	if prevErr != nil && !errors.Is(prevErr, ErrNotFound) {
		return ObjectMeta{}, s.discard(staging, fmt.Errorf("put object %s: metadata lookup failed: %w", key, prevErr))
	}

	entry := ObjectMeta{
		Key:           key,
		ContentType:   contentType,
		Etag:          saveResult.Etag,
		FileSizeBytes: saveResult.BytesWritten,
	}

	meta, _, upsertErr := s.repo.Upsert(ctx, entry)
	if upsertErr != nil {
		return ObjectMeta{}, s.discard(staging, fmt.Errorf("put object %s: metadata upsert failed: %w", key, upsertErr))
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
	defer cancel()

	if renameErr := s.storage.Rename(cleanupCtx, staging, key); renameErr != nil {
		err := fmt.Errorf("put object %s: rename failed: %w", key, renameErr)
		if prevErr == nil {
			if _, _, restoreErr := s.repo.Upsert(cleanupCtx, prev); restoreErr != nil {
				err = fmt.Errorf("%w; restoring metadata failed: %w", err, restoreErr)
			}
		}
		return ObjectMeta{}, s.discard(staging, err)
	}

	return meta, nil
}

// discard removes a staged blob and returns cause, extended with the cleanup
// error if the removal failed.
func (s *BlobStore) discard(staging string, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
	defer cancel()

	if delErr := s.storage.Delete(ctx, staging); delErr != nil && !errors.Is(delErr, ErrNotFound) {
		return fmt.Errorf("%w and cleanup failed: %w", cause, delErr)
	}
	return cause
}

// stagingKey is a hidden key, skipped when storage directories are scanned.
func stagingKey() string {
	return ".put-" + uuid.NewString()
}

// Get resolves metadata for key and opens the blob. Metadata without a blob is
// reported as ErrNotFound.
func (s *BlobStore) Get(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, fmt.Errorf("get object: %w", err)
	}

	if !IsValidKey(key) {
		return Object{}, fmt.Errorf("get object %q: %w", key, ErrNotFound)
	}

	meta, err := s.repo.Get(ctx, key)
	if err != nil {
		return Object{}, fmt.Errorf("get object %s: %w", key, err)
	}

	f, err := s.storage.Get(ctx, key)
	if err != nil {
		return Object{}, fmt.Errorf("get object %s: %w", key, err)
	}

	return Object{ObjectMeta: meta, Body: f}, nil
}

func (s *BlobStore) List(ctx context.Context) ([]ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	return items, nil
}
