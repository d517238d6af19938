package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/iconbox"
	"github.com/sagarc03/iconbox/database/postgres"
	"github.com/sagarc03/iconbox/database/sqlite"
	"github.com/sagarc03/iconbox/memory"
)

// Config holds the configuration for connecting to a database backend.
type Config struct {
	// Type is the backend: "sqlite", "postgres" or "memory".
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres memory"`
	// DSN is the connection string. Ignored for "memory".
	DSN string `mapstructure:"dsn"`
	// Tables names the objects and icons tables.
	Tables iconbox.Tables `mapstructure:"tables"`
}

// Database is a connected backend holding object metadata and the icon
// directory.
type Database interface {
	Ping(ctx context.Context) error
	// Migrate creates missing tables. It is safe to run repeatedly.
	Migrate(ctx context.Context) error
	// Validate checks that the tables match the expected schema.
	Validate(ctx context.Context) error
	Objects() iconbox.MetaDataRepo
	Directory() iconbox.DirectoryStore
	Close() error
}

// Connect validates the table names and connects to the configured backend.
// It does not migrate; call Migrate and Validate before serving.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "memory":
		return newMemoryDatabase(), nil
	default:
		return nil, fmt.Errorf("connect: unsupported database type: %q", cfg.Type)
	}
}

// Open connects, pings, migrates and validates in one step.
func Open(ctx context.Context, cfg Config) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"ping", db.Ping},
		{"migrate", db.Migrate},
		{"validate", db.Validate},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open %s database: %s: %w", cfg.Type, step.name, err)
		}
	}

	return db, nil
}

type memoryDatabase struct {
	objects   *memory.MetaDataRepo
	directory *memory.Directory
}

func newMemoryDatabase() *memoryDatabase {
	return &memoryDatabase{
		objects:   memory.NewMetaDataRepo(),
		directory: memory.NewDirectory(),
	}
}

func (m *memoryDatabase) Ping(context.Context) error     { return nil }
func (m *memoryDatabase) Migrate(context.Context) error  { return nil }
func (m *memoryDatabase) Validate(context.Context) error { return nil }

func (m *memoryDatabase) Objects() iconbox.MetaDataRepo     { return m.objects }
func (m *memoryDatabase) Directory() iconbox.DirectoryStore { return m.directory }

func (m *memoryDatabase) Close() error { return nil }
