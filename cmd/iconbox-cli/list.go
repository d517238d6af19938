package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List icons in the server manifest",
	Long: `List every icon in the server's public manifest with its URL.

Examples:
  iconbox-cli list
  iconbox-cli list -q
  iconbox-cli list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := getClient(false)
	if err != nil {
		return err
	}

	manifest, err := client.Manifest(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatManifest(os.Stdout, manifest)
}
