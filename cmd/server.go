package cmd

import (
	"audiodeck/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API that manages the assets tree, metadata, presets, orders and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddr = addr
		}
		if cmd.Flags().Changed("auto-prune") {
			cfg.AutoPrune, _ = cmd.Flags().GetBool("auto-prune")
		}
		return server.Start(cfg)
	},
}

func init() {
	serverCmd.Flags().String("addr", "", "listen address (overrides SERVER_ADDR)")
	serverCmd.Flags().Bool("auto-prune", false, "prune metadata when files disappear from the assets tree")
	rootCmd.AddCommand(serverCmd)
}
