package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/clientcli"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <name> [local-path]",
	Short: "Download an icon from the server",
	Long: `Download an icon by name ("apple") or stored filename ("apple.png").

Examples:
  iconbox-cli download apple
  iconbox-cli download apple ./icons/apple.png
  iconbox-cli download --stdout apple > apple.png`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(cmd *cobra.Command, args []string) error {
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	client, err := getClient(false)
	if err != nil {
		return err
	}

	result, reader, err := client.Download(cmd.Context(), clientcli.DownloadOptions{
		Name:      args[0],
		LocalPath: localPath,
	})
	if err != nil {
		return err
	}

	if reader != nil {
		defer func() { _ = reader.Close() }()
		if err := copyOut(reader); err != nil {
			return err
		}
		// Metadata goes to stderr so stdout stays the image
		if jsonOutput {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return getFormatter().FormatDownload(os.Stdout, result)
}
