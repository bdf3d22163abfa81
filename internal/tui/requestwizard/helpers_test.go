package requestwizard

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Set Ascii profile to disable color output for consistent assertions
// across CI/platforms.
func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}
