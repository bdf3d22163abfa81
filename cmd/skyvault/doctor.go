package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyvaultcloud/skyvault/internal/backend"
	"github.com/skyvaultcloud/skyvault/internal/config"
	"github.com/skyvaultcloud/skyvault/internal/session"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local environment and backend connectivity",
	RunE:  runDoctor,
}

type checkResult struct {
	name   string
	ok     bool
	detail string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var results []checkResult

	cfg, err := config.Load()
	if err != nil {
		results = append(results, checkResult{"config", false, err.Error()})
	} else {
		detail := "defaults"
		if config.Exists() {
			detail = config.ProjectPath()
			if _, statErr := os.Stat(detail); statErr != nil {
				detail = config.GlobalPath()
			}
		}
		results = append(results, checkResult{"config", true, detail})
	}

	identity, err := session.NewFileProvider(session.Path()).Current()
	if err != nil {
		results = append(results, checkResult{"session", false, err.Error()})
	} else {
		results = append(results, checkResult{"session", true, identity.Email})
	}

	if cfg == nil || cfg.BackendURL == "" {
		results = append(results, checkResult{"backend", false, "no backend_url configured"})
	} else {
		client := backend.NewClient(cfg.BackendURL,
			backend.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			results = append(results, checkResult{"backend", false, err.Error()})
		} else {
			results = append(results, checkResult{"backend", true, cfg.BackendURL})
		}
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		results = append(results, checkResult{"editor", true, editor})
	} else {
		results = append(results, checkResult{"editor", false, "$EDITOR not set; ticket bodies cannot be edited in the wizard"})
	}

	failed := 0
	for _, r := range results {
		mark := "✓"
		if !r.ok {
			mark = "✗"
			failed++
		}
		fmt.Printf("%s %-8s %s\n", mark, r.name, r.detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
