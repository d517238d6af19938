package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/clientcli"
)

var (
	uploadName string
	uploadRaw  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <image>...",
	Short: "Upload icons to the server",
	Long: `Upload one or more images as icons.

Each image is stretched onto a white 108x108 canvas and sent as PNG, the
same as the upload page does. The icon name is the file name with every
non-letter removed, unless --name is given (single image only).

Examples:
  iconbox-cli upload ./apple.png
  iconbox-cli upload --name Banana ./yellow-thing.jpg
  iconbox-cli upload --raw ./prepared/*.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "icon name (letters only)")
	uploadCmd.Flags().BoolVar(&uploadRaw, "raw", false, "send files as-is without normalizing")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadName != "" && len(args) > 1 {
		return fmt.Errorf("--name needs exactly one image, got %d", len(args))
	}

	client, err := getClient(true)
	if err != nil {
		return err
	}

	results := make([]clientcli.UploadResult, 0, len(args))
	for _, path := range args {
		result, uploadErr := client.Upload(cmd.Context(), clientcli.UploadOptions{
			LocalPath: path,
			Name:      uploadName,
			Raw:       uploadRaw,
		})
		if uploadErr != nil {
			_ = getFormatter().FormatUpload(os.Stdout, results)
			return fmt.Errorf("%s: %w", path, uploadErr)
		}
		results = append(results, result)
	}

	return getFormatter().FormatUpload(os.Stdout, results)
}
