package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyvaultcloud/skyvault/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in portal identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := session.NewFileProvider(session.Path()).Current()
		if err != nil {
			return err
		}
		if identity.Name != "" {
			fmt.Printf("%s <%s>\n", identity.Name, identity.Email)
		} else {
			fmt.Println(identity.Email)
		}
		return nil
	},
}
