package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photostudio/photostudio/internal/mode"
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List processing modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range mode.All {
				fmt.Fprintf(out, "%-22s %s\n", m, m.Endpoint())
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Collage types:")
			var parts []string
			for _, t := range mode.CollageTypes() {
				parts = append(parts, fmt.Sprintf("%s (%d)", t, mode.RequiredCollageFiles(t)))
			}
			fmt.Fprintln(out, "  "+strings.Join(parts, ", "))
			return nil
		},
	}
}
