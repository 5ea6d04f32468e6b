package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/apolog/internal/config"
)

var logLevelFlag string

var rootCmd = &cobra.Command{
	Use:   "apolog",
	Short: "apolog — bind Gherkin features to Go step definitions",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()})
		slog.SetDefault(slog.New(handler))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
