package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/config"
	"github.com/sagarc03/iconbox/database"
	"github.com/sagarc03/iconbox/filesystem"
	"github.com/sagarc03/iconbox/memory"
)

// backends is everything a command needs to read or write icons.
type backends struct {
	db      database.Database
	storage iconbox.FileStorage
	// disk is set when storage is the filesystem backend.
	disk    *filesystem.Store
	objects *iconbox.BlobStore
	service *iconbox.IconService
	closers []func() error
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			slog.Warn("close backend", "err", err)
		}
	}
}

// openBackends connects the database (migrating when asked), opens blob
// storage and builds the icon service on top of them.
func openBackends(ctx context.Context, cfg *config.Config, migrate bool) (*backends, error) {
	b := &backends{}

	var (
		db  database.Database
		err error
	)
	if migrate {
		db, err = database.Open(ctx, cfg.Database)
	} else {
		db, err = connect(ctx, cfg.Database)
	}
	if err != nil {
		return nil, err
	}
	b.db = db
	b.closers = append(b.closers, db.Close)
	slog.Debug("connected to database", "type", cfg.Database.Type)

	switch cfg.Storage.Type {
	case "memory":
		b.storage = memory.NewFileStorage()
	default:
		store, root, openErr := filesystem.Open(cfg.Storage.Path)
		if openErr != nil {
			b.Close()
			return nil, fmt.Errorf("open storage: %w", openErr)
		}
		b.closers = append(b.closers, root.Close)
		b.disk = store
		b.storage = store
		slog.Debug("opened storage", "path", cfg.Storage.Path)
	}

	b.objects = iconbox.NewBlobStore(db.Objects(), b.storage, iconbox.BlobStoreConfig{
		CleanupTimeout: cfg.Service.CleanupTimeoutDuration(),
	})
	b.service = iconbox.NewIconService(b.objects, db.Directory())

	return b, nil
}

// connect opens an existing database without creating tables.
func connect(ctx context.Context, cfg database.Config) (database.Database, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate database schema (run 'iconbox init' first): %w", err)
	}

	return db, nil
}

// storageExists reports whether the filesystem storage directory is present.
func storageExists(cfg *config.Config) bool {
	if cfg.Storage.Type == "memory" {
		return true
	}
	_, err := os.Stat(cfg.Storage.Path)
	return err == nil
}
