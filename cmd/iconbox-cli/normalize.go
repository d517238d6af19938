package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/imaging"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <image> <output.png>",
	Short: "Convert an image to icon shape locally",
	Long: `Stretch an image onto a white 108x108 canvas and write it as PNG,
without contacting a server. Use "-" as output to write to stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: runNormalize,
}

func runNormalize(_ *cobra.Command, args []string) error {
	in, err := os.Open(args[0]) //#nosec G304 -- path is user-provided input
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer func() { _ = in.Close() }()

	data, err := imaging.Normalize(in)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", args[0], err)
	}

	if args[1] == "-" {
		return copyOut(bytes.NewReader(data))
	}

	if err := os.WriteFile(args[1], data, 0o644); err != nil { //#nosec G306 -- icons are public
		return fmt.Errorf("write %s: %w", args[1], err)
	}

	if !quiet {
		fmt.Printf("Wrote %s (%dx%d PNG, %d bytes)\n", args[1], imaging.Size, imaging.Size, len(data))
	}
	return nil
}
