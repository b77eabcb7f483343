package cmd

import (
	"encoding/json"
	"fmt"

	"audiodeck/storage"

	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Check the document store connection",
	Long:  `Connect to the configured document store (file, redis or minio) and report which documents are present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "backend: %s\n", cfg.StoreBackend)
		store, err := storage.NewDocumentStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
		defer store.Close()

		for _, name := range []string{storage.DocMetadata, storage.DocPresets, storage.DocOrders, storage.DocSettings} {
			var raw json.RawMessage
			ok, err := store.Load(ctx, name, &raw)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			if !ok {
				fmt.Fprintf(out, "  %-9s missing\n", name)
				continue
			}
			fmt.Fprintf(out, "  %-9s %d bytes\n", name, len(raw))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
