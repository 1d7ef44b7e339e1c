package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photostudio/photostudio/internal/storage"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show and export processing history",
	}

	cmd.AddCommand(newHistoryListCmd(root))
	cmd.AddCommand(newHistoryRemoteCmd(root))
	cmd.AddCommand(newHistoryExportCmd(root))

	return cmd
}

func newHistoryListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List locally recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, run := range runs {
				status := "ok"
				if !run.Succeeded() {
					status = "failed: " + run.Error
				}
				fmt.Fprintf(out, "%s  %s  %-22s files=%d outputs=%d  %s\n",
					run.StartedAt.Local().Format("2006-01-02 15:04:05"), shortID(run.ID), run.Mode,
					len(run.Files), len(run.Outputs), status)
			}
			return nil
		},
	}
}

func newHistoryRemoteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remote",
		Short: "List images processed on the server for the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := root.client()
			if err != nil {
				return err
			}

			images, err := client.MyImages(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, img := range images {
				fmt.Fprintf(out, "%6d  %-20s  %-20s  %s\n", img.ID, img.Type, img.CreatedAt, img.Filename)
			}
			return nil
		},
	}
}

func newHistoryExportCmd(root *rootOptions) *cobra.Command {
	var out string
	var remote bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history to a Parquet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.HasSuffix(out, ".parquet") {
				return fmt.Errorf("output file must end in .parquet: %s", out)
			}

			if remote {
				client, _, err := root.client()
				if err != nil {
					return err
				}
				images, err := client.MyImages(cmd.Context())
				if err != nil {
					return err
				}
				if err := storage.ExportRemote(out, images); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d remote images to %s\n", len(images), out)
				return nil
			}

			store, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := storage.ExportRuns(out, runs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d runs to %s\n", len(runs), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "history.parquet", "Parquet file to write")
	cmd.Flags().BoolVar(&remote, "remote", false, "Export the server-side image list instead of local runs")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
