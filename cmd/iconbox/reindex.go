package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/config"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild icon mappings from stored files",
	Long: `Scan the storage directory, record metadata for every file found, and
map each "<letters>.png" file back to its icon name. This is useful when:
  - The database was lost but the storage directory survived
  - Icons were copied into the storage directory by hand
  - Pointing a fresh database at an existing storage directory`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !storageExists(cfg) {
		return fmt.Errorf("storage directory does not exist: %s", cfg.Storage.Path)
	}

	b, err := openBackends(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.disk != nil {
		slog.Info("scanning storage directory", "path", cfg.Storage.Path)

		found, scanErr := b.disk.Scan(ctx)
		if scanErr != nil {
			return fmt.Errorf("scan storage: %w", scanErr)
		}

		repo := b.db.Objects()
		for _, meta := range found {
			if _, _, upsertErr := repo.Upsert(ctx, meta); upsertErr != nil {
				return fmt.Errorf("record %s: %w", meta.Key, upsertErr)
			}
		}
		slog.Info("recorded stored files", "files", len(found))
	}

	indexed, err := b.service.Reindex(ctx)
	if err != nil {
		return err
	}

	slog.Info("reindex complete", "icons", indexed)
	return nil
}
