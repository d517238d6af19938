package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "iconbox",
	Short:   "Password-protected icon upload server",
	Long: `Iconbox stores small PNG icons under letter-only names and publishes
them as a JSON manifest with a URL for every icon.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			files = append(files, configFile)
		}

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres, memory (default: sqlite, env: ICONBOX_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: iconbox.db, env: ICONBOX_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-type", "", "blob storage: filesystem, memory (default: filesystem, env: ICONBOX_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: ICONBOX_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: ICONBOX_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
