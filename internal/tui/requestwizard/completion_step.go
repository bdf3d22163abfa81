package requestwizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

// CompletionStep shows the filed ticket with New Request/Exit buttons.
type CompletionStep struct {
	ticketID      string
	width         int
	height        int
	buttonBar     *wizard.ButtonBar
	buttonFocused bool
}

// NewCompletionStep creates a new completion step.
func NewCompletionStep(ticketID string) *CompletionStep {
	buttons := []wizard.Button{
		{ID: wizard.ButtonBack, Label: "New Request", State: wizard.ButtonNormal},
		{ID: wizard.ButtonNext, Label: "Exit", State: wizard.ButtonNormal},
	}
	buttonBar := wizard.NewButtonBar(buttons)

	return &CompletionStep{
		ticketID:      ticketID,
		buttonBar:     buttonBar,
		buttonFocused: true, // Auto-focus buttons on entry
	}
}

// Init initializes the completion step.
func (s *CompletionStep) Init() tea.Cmd {
	if s.buttonBar != nil {
		s.buttonBar.FocusFirst()
	}
	return nil
}

// Update handles messages for the completion step.
func (s *CompletionStep) Update(msg tea.Msg) tea.Cmd {
	if s.buttonFocused && s.buttonBar != nil {
		switch msg := msg.(type) {
		case tea.KeyPressMsg:
			switch msg.String() {
			case "tab", "right":
				if !s.buttonBar.FocusNext() {
					s.buttonBar.FocusFirst()
				}
				return nil
			case "shift+tab", "left":
				if !s.buttonBar.FocusPrev() {
					s.buttonBar.FocusLast()
				}
				return nil
			case "enter", "space":
				return s.activateButton(s.buttonBar.FocusedButton())
			}
		}
	}

	return nil
}

// View renders the completion step.
func (s *CompletionStep) View() string {
	currentTheme := theme.Current()
	var b strings.Builder

	iconStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(currentTheme.Success)).
		Bold(true).
		MarginBottom(1)
	b.WriteString(iconStyle.Render("✓ Request Filed!"))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(currentTheme.FgMuted))
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(currentTheme.Primary)).
		Bold(true)

	b.WriteString(labelStyle.Render("Ticket: "))
	b.WriteString(valueStyle.Render(s.ticketID))
	b.WriteString("\n\n")

	instructionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(currentTheme.FgBase)).
		MarginBottom(1)
	b.WriteString(instructionStyle.Render("The operations team will follow up by email."))
	b.WriteString("\n\n")

	if s.buttonBar != nil {
		b.WriteString(s.buttonBar.Render())
		b.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(currentTheme.FgMuted))
	b.WriteString(hintStyle.Render("tab/arrow keys to navigate • enter to select"))

	return b.String()
}

// SetSize updates the size of the completion step.
func (s *CompletionStep) SetSize(width, height int) {
	s.width = width
	s.height = height

	if s.buttonBar != nil {
		s.buttonBar.SetWidth(width)
	}
}

// activateButton handles button activation.
func (s *CompletionStep) activateButton(btnID wizard.ButtonID) tea.Cmd {
	switch btnID {
	case wizard.ButtonBack:
		return func() tea.Msg {
			return RestartWizardMsg{}
		}
	case wizard.ButtonNext:
		return tea.Quit
	}
	return nil
}
