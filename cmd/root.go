package cmd

import (
	"fmt"
	"os"

	"audiodeck/config"
	"audiodeck/logger"
	"audiodeck/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "audiodeck",
	Short: "audiodeck organizes music, ambience and sound effects for tabletop sessions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(loadConfig())
	},
	SilenceUsage: true,
}

// loadConfig reads the environment and initialises the logger.
func loadConfig() *config.Config {
	cfg := config.Load()
	if err := logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
	}
	return cfg
}

// Execute executes the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
