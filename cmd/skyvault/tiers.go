package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skyvaultcloud/skyvault/internal/catalog"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the service tier catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %10s %12s  %-18s %s\n", "TIER", "CAPACITY", "CANONICAL", "RESPONSE", "CHANNELS")
		for _, t := range cat.All() {
			fmt.Printf("%-12s %10s %9.0f GB  %-18s %s\n",
				t.Title,
				t.Capacity.String(),
				t.Capacity.CanonicalGB(),
				t.ResponseTime,
				strings.Join(t.Channels, ", "),
			)
		}
		fmt.Printf("%-12s %10s %12s  custom allocations start at %d GB\n",
			"Custom", "—", "—", catalog.MinCustomGB)
		return nil
	},
}
