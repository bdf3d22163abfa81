package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/skyvaultcloud/skyvault/internal/logger"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
)

const (
	logoText1 = "█▀ █▄▀ █▄█ █ █ ▄▀█ █ █ █   ▀█▀"
	logoText2 = "▄█ █ █  █  ▀▄▀ █▀█ █▄█ █▄▄  █ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyvault",
	Short: "Terminal request portal for SkyVault managed cloud storage",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

skyvault files provisioning and change requests with your storage reseller
from the terminal. It walks a branch-dependent wizard (AWS accounts, storage
buckets, or changes to existing resources), gates tier changes through the
upgrade-only comparison protocol, and submits a single structured ticket.`

	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(doctorCmd)
}
