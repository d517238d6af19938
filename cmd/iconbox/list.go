package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored icons",
	RunE:  runList,
}

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print icons as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	b, err := openBackends(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer b.Close()

	icons, err := b.service.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(icons)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tFILENAME")
	for _, icon := range icons {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", icon.Name, icon.Filename)
	}
	return tw.Flush()
}
