package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create database tables and the storage directory",
	Long: `Create the objects and icons tables and the storage directory.
Existing tables are left untouched, so running init again is safe.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	b, err := openBackends(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer b.Close()

	slog.Info("initialization complete",
		"database", cfg.Database.Type,
		"objects_table", cfg.Database.Tables.Objects,
		"icons_table", cfg.Database.Tables.Icons,
		"storage", cfg.Storage.Path,
	)
	return nil
}
