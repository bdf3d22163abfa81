package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyvaultcloud/skyvault/internal/config"
	"github.com/skyvaultcloud/skyvault/internal/logger"
	"github.com/skyvaultcloud/skyvault/internal/tui/requestwizard"
)

var requestFlags struct {
	backend string
	dataDir string
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "File a new request with the storage reseller",
	Long: `File a new request with the storage reseller.

The request command walks the interactive wizard: pick the request type,
fill in the branch-specific details, and submit. Storage requests route
through tier selection, where only upgrades are permitted.`,
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVar(&requestFlags.backend, "backend", "", "Backend base URL (overrides config)")
	requestCmd.Flags().StringVar(&requestFlags.dataDir, "data-dir", "", "Data directory (overrides config)")
}

func runRequest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if requestFlags.backend != "" {
		cfg.BackendURL = requestFlags.backend
	}
	if requestFlags.dataDir != "" {
		cfg.DataDir = requestFlags.dataDir
	}
	if cfg.BackendURL == "" {
		return fmt.Errorf("no backend configured: set backend_url in skyvault.yml or pass --backend")
	}

	logger.Info("Starting request wizard against %s", cfg.BackendURL)
	return requestwizard.Run(cfg)
}
