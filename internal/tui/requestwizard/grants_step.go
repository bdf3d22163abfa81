package requestwizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

// GrantsStep manages the ordered access-grant list. Rows can be appended
// and removed freely; an empty list is a valid request.
type GrantsStep struct {
	form   *request.Form
	width  int
	height int

	nameInput  textinput.Model
	emailInput textinput.Model
	level      request.AccessLevel

	focusIdx  int // 0 name, 1 email, 2 level
	rowCursor int // highlighted existing row, -1 when in the entry form
	err       string
}

// NewGrantsStep creates the access-grants step.
func NewGrantsStep(form *request.Form) *GrantsStep {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80
	name.SetWidth(30)
	name.Focus()

	email := textinput.New()
	email.Placeholder = "person@example.com"
	email.CharLimit = 120
	email.SetWidth(30)

	return &GrantsStep{
		form:       form,
		nameInput:  name,
		emailInput: email,
		level:      request.AccessRead,
		rowCursor:  -1,
	}
}

// Init initializes the grants step.
func (s *GrantsStep) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the grants step.
func (s *GrantsStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s.updateInputs(msg)
	}

	// Row list navigation.
	if s.rowCursor >= 0 {
		switch keyMsg.String() {
		case "up", "k":
			if s.rowCursor > 0 {
				s.rowCursor--
			}
			return nil
		case "down", "j":
			s.rowCursor++
			if s.rowCursor >= len(s.form.Grants) {
				s.enterForm()
			}
			return nil
		case "d", "backspace", "delete":
			s.form.RemoveGrant(s.rowCursor)
			if s.rowCursor >= len(s.form.Grants) {
				if len(s.form.Grants) == 0 {
					s.enterForm()
				} else {
					s.rowCursor = len(s.form.Grants) - 1
				}
			}
			return nil
		case "tab", "esc":
			s.enterForm()
			return nil
		}
		return nil
	}

	switch keyMsg.String() {
	case "tab":
		if s.focusIdx == 2 {
			return func() tea.Msg { return wizard.TabExitForwardMsg{} }
		}
		s.focusIdx++
		s.applyFocus()
		return nil
	case "shift+tab":
		if s.focusIdx == 0 {
			return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
		}
		s.focusIdx--
		s.applyFocus()
		return nil
	case "up":
		if len(s.form.Grants) > 0 {
			s.Blur()
			s.rowCursor = len(s.form.Grants) - 1
		}
		return nil
	case "left", "right":
		if s.focusIdx == 2 {
			s.level = s.level.Next()
			return nil
		}
	case "enter":
		if s.focusIdx == 2 {
			s.addRow()
			return nil
		}
		s.focusIdx++
		s.applyFocus()
		return nil
	}

	return s.updateInputs(msg)
}

func (s *GrantsStep) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focusIdx {
	case 0:
		s.nameInput, cmd = s.nameInput.Update(msg)
	case 1:
		s.emailInput, cmd = s.emailInput.Update(msg)
	}
	return cmd
}

// addRow appends the entry form as a grant row and clears the form.
// Duplicate rows are permitted.
func (s *GrantsStep) addRow() {
	name := strings.TrimSpace(s.nameInput.Value())
	email := strings.TrimSpace(s.emailInput.Value())
	if name == "" && email == "" {
		s.err = "enter a name or email before adding"
		return
	}
	s.err = ""
	s.form.AddGrant(request.AccessGrant{FullName: name, Email: email, Level: s.level})
	s.nameInput.SetValue("")
	s.emailInput.SetValue("")
	s.level = request.AccessRead
	s.focusIdx = 0
	s.applyFocus()
}

func (s *GrantsStep) enterForm() {
	s.rowCursor = -1
	s.focusIdx = 0
	s.applyFocus()
}

// View renders the grants step content.
func (s *GrantsStep) View() string {
	t := theme.Current()
	var b strings.Builder

	b.WriteString(labelStyle().Render("Who needs access? (optional)"))
	b.WriteString("\n\n")

	if len(s.form.Grants) > 0 {
		for i, g := range s.form.Grants {
			row := fmt.Sprintf("%-24s %-28s %s", g.FullName, g.Email, g.Level)
			b.WriteString(cursorRow(row, i == s.rowCursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(s.nameInput.View())
	b.WriteString("  ")
	b.WriteString(s.emailInput.View())
	b.WriteString("\n")

	levelLabel := fmt.Sprintf("Access: %s", s.level)
	if s.focusIdx == 2 && s.rowCursor < 0 {
		levelLabel = "❯ " + levelLabel + "  (←/→ to change, enter to add)"
	}
	b.WriteString(labelStyle().Render(levelLabel))
	b.WriteString("\n")

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(renderNotice("✗", s.err, t.Error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.rowCursor >= 0 {
		b.WriteString(renderHintBar("↑↓", "select row", "d", "remove", "tab", "entry form"))
	} else {
		b.WriteString(renderHintBar("tab", "next field", "enter", "add row", "↑", "row list"))
	}
	return b.String()
}

// SetSize updates the size of the grants step.
func (s *GrantsStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	inputWidth := (width - 8) / 2
	if inputWidth < 16 {
		inputWidth = 16
	}
	s.nameInput.SetWidth(inputWidth)
	s.emailInput.SetWidth(inputWidth)
}

// Focus focuses the first entry-form field.
func (s *GrantsStep) Focus() {
	s.enterForm()
}

// Blur removes focus from the entry form.
func (s *GrantsStep) Blur() {
	s.nameInput.Blur()
	s.emailInput.Blur()
}

func (s *GrantsStep) applyFocus() {
	s.Blur()
	switch s.focusIdx {
	case 0:
		s.nameInput.Focus()
	case 1:
		s.emailInput.Focus()
	}
}

// Submit leaves the step; the grant list is unconstrained.
func (s *GrantsStep) Submit() tea.Cmd {
	return func() tea.Msg {
		return GrantsSubmittedMsg{}
	}
}
