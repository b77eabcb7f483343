package cmd

import (
	"fmt"

	"audiodeck/core/library"
	"audiodeck/repository"
	"audiodeck/storage"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove metadata of tracks that no longer exist on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		store, err := storage.NewDocumentStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		lib := library.New(cfg.AssetsDir, repository.NewMetadataRepository(store))
		res, err := lib.Prune(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "checked %d metadata entries, removed %d\n", res.Checked, len(res.Removed))
		for _, id := range res.Removed {
			fmt.Fprintf(out, "  - %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
