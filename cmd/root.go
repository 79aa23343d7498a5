package cmd

import (
	"context"
	"errors"

	"applianceassist/config"
	"applianceassist/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "applianceassist",
	Short:        "Appliance repair service requests, diagnosis and admin API",
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the CLI. Without a subcommand the server starts.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	rootCmd.SetContext(ctx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return logger.New("cmd").Function("Execute").Err("command execution failed", err)
	}
	return nil
}

func loadConfig() (config.Config, error) {
	return config.InitConfig()
}
