package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/pool"
	"github.com/photostudio/photostudio/internal/preview"
)

func newPreviewCmd() *cobra.Command {
	var outDir string
	var size int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preview [files or directories...]",
		Short: "Validate images and list them as the upload form would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := pool.LoadPaths(args)
			if err != nil {
				return err
			}

			m := pool.New()
			accepted, rejected := m.AddFiles(models.PoolDefault, entries)
			for _, r := range rejected {
				fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %s\n", r.Error())
			}

			items, err := preview.Build(accepted, outDir, size)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			for _, item := range items {
				fmt.Fprintf(out, "%2d. %s  %s", item.Index+1, item.Name, item.Size)
				if item.Width > 0 {
					fmt.Fprintf(out, "  %dx%d", item.Width, item.Height)
				}
				if item.Thumbnail != "" {
					fmt.Fprintf(out, "  -> %s", item.Thumbnail)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Write JPEG thumbnails into this directory")
	cmd.Flags().IntVar(&size, "size", preview.DefaultSize, "Thumbnail size in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")

	return cmd
}
