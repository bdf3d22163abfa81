package requestwizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
)

// branchOption is one selectable request type with a short description.
type branchOption struct {
	branch request.Branch
	desc   string
}

var branchOptions = []branchOption{
	{request.BranchAWS, "Provision new AWS accounts for your organization"},
	{request.BranchStorage, "Provision storage buckets with a service tier"},
	{request.BranchChange, "Modify an existing account or bucket"},
}

// BranchStep handles the mutually-exclusive first choice. Committing a
// branch other than the active one resets the previous branch's fields.
type BranchStep struct {
	form   *request.Form
	cursor int
	width  int
	height int
}

// NewBranchStep creates the request-type step, pre-positioning the cursor
// on the active branch when the user navigated back here.
func NewBranchStep(form *request.Form) *BranchStep {
	s := &BranchStep{form: form}
	for i, opt := range branchOptions {
		if opt.branch == form.RequestType {
			s.cursor = i
		}
	}
	return s
}

// Init initializes the branch step.
func (s *BranchStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the branch step.
func (s *BranchStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(branchOptions)-1 {
			s.cursor++
		}
	case "enter", "space":
		return s.Submit()
	}
	return nil
}

// View renders the branch step content.
func (s *BranchStep) View() string {
	t := theme.Current()
	var b strings.Builder

	instruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1).
		Render("What do you need?")
	b.WriteString(instruction)
	b.WriteString("\n")

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		MarginLeft(4)

	for i, opt := range branchOptions {
		label := opt.branch.Label()
		if s.form.RequestType == opt.branch {
			label += " ✓"
		}
		b.WriteString(cursorRow(label, i == s.cursor))
		b.WriteString("\n")
		b.WriteString(descStyle.Render(opt.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar("↑↓/j/k", "navigate", "enter", "select"))

	return b.String()
}

// SetSize updates the size of the branch step.
func (s *BranchStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus is a no-op; the list is always active.
func (s *BranchStep) Focus() {}

// Blur is a no-op; the list is always active.
func (s *BranchStep) Blur() {}

// Submit commits the highlighted branch.
func (s *BranchStep) Submit() tea.Cmd {
	choice := branchOptions[s.cursor].branch
	return func() tea.Msg {
		return BranchChosenMsg{Branch: choice}
	}
}
