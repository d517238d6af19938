package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/config"
	"github.com/sagarc03/iconbox/imaging"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <image> <name>",
	Short: "Store a local image as an icon",
	Long: `Store a local image under an icon name, bypassing the web upload.

The image is decoded (PNG, JPEG, GIF or WebP), stretched onto a white
108x108 canvas and stored as PNG, the same shape the upload page produces.
Adding an existing name replaces its icon.

Examples:
  # Add an icon
  iconbox add ./apple.jpg apple

  # Store the file as-is
  iconbox add --raw ./banana.png Banana`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var addRaw bool

func init() {
	addCmd.Flags().BoolVar(&addRaw, "raw", false, "store the file without normalizing it")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	path, name := args[0], args[1]

	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var content io.Reader = f
	if !addRaw {
		png, normErr := imaging.Normalize(f)
		if normErr != nil {
			return fmt.Errorf("normalize %s: %w", path, normErr)
		}
		content = bytes.NewReader(png)
	}

	b, err := openBackends(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer b.Close()

	icon, err := b.service.Upload(ctx, name, content)
	if err != nil {
		return err
	}

	slog.Info("added", "name", icon.Name, "filename", icon.Filename, "source", path)
	return nil
}
