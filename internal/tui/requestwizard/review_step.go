package requestwizard

import (
	"errors"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/x/editor"

	"github.com/skyvaultcloud/skyvault/internal/document"
	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

// ReviewStep is the terminal step: required acknowledgements, a rendered
// preview of the ticket body, optional manual editing of the body, and the
// submit action. The structured payload is never affected by edits; only
// the human-readable body can be overridden.
type ReviewStep struct {
	form     *request.Form
	synth    *document.Synthesizer
	reporter document.Reporter

	viewport    viewport.Model
	ackCursor   int
	generated   string // markdown rendered from the synthesized document
	editedBody  string // non-empty once the user edited the body
	showDiff    bool
	formVersion int
	tmpFile     string

	buttonBar     *wizard.ButtonBar
	buttonFocused bool
	err           string
	width         int
	height        int
}

// NewReviewStep creates the review step and renders the initial preview.
func NewReviewStep(form *request.Form, synth *document.Synthesizer, reporter document.Reporter) *ReviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := &ReviewStep{
		form:     form,
		synth:    synth,
		reporter: reporter,
		viewport: vp,
		width:    60,
		height:   20,
	}
	s.buttonBar = wizard.NewButtonBar(wizard.CreateBackNextButtons(true, true, "Submit"))
	s.refreshPreview()
	return s
}

// Body returns the ticket body to submit: the manual edit when present,
// otherwise the generated markdown.
func (s *ReviewStep) Body() string {
	if s.editedBody != "" {
		return s.editedBody
	}
	return s.generated
}

// Edited reports whether the user overrode the generated body.
func (s *ReviewStep) Edited() bool {
	return s.editedBody != ""
}

// refreshPreview re-synthesizes the document when the form changed and
// re-renders the markdown preview. A manual edit survives until the form
// itself changes underneath it.
func (s *ReviewStep) refreshPreview() {
	if s.formVersion != s.form.Version() || s.generated == "" {
		doc, _ := s.synth.Synthesize(s.form, s.reporter, time.Now())
		s.generated = document.Markdown(doc)
		s.editedBody = ""
		s.formVersion = s.form.Version()
	}
	s.viewport.SetContent(renderMarkdown(s.Body(), s.width))
}

// renderMarkdown renders markdown content with glamour, falling back to
// plain text if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// Init initializes the review step.
func (s *ReviewStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the review step.
func (s *ReviewStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if s.showDiff {
			// Any key closes the changes view.
			s.showDiff = false
			return nil
		}

		if s.buttonFocused {
			switch msg.String() {
			case "tab", "right":
				if !s.buttonBar.FocusNext() {
					s.buttonFocused = false
					s.buttonBar.Blur()
				}
				return nil
			case "shift+tab", "left":
				if !s.buttonBar.FocusPrev() {
					s.buttonFocused = false
					s.buttonBar.Blur()
				}
				return nil
			case "enter", "space":
				return s.activateButton(s.buttonBar.FocusedButton())
			}
			return nil
		}

		switch msg.String() {
		case "up", "k":
			if s.ackCursor > 0 {
				s.ackCursor--
			}
			return nil
		case "down", "j":
			if s.ackCursor < len(request.RequiredAcks)-1 {
				s.ackCursor++
			}
			return nil
		case "space", "x":
			ack := request.RequiredAcks[s.ackCursor]
			s.form.SetAck(ack.ID, !s.form.Acks[ack.ID])
			s.err = ""
			return nil
		case "e":
			if os.Getenv("EDITOR") != "" {
				return s.openEditor()
			}
			return nil
		case "c":
			if s.Edited() {
				s.showDiff = true
			}
			return nil
		case "tab":
			s.buttonFocused = true
			s.buttonBar.FocusFirst()
			return nil
		case "shift+tab":
			s.buttonFocused = true
			s.buttonBar.FocusLast()
			return nil
		case "enter":
			return s.Submit()
		}

	case BodyEditedMsg:
		if strings.TrimSpace(msg.Body) == "" || msg.Body == s.generated {
			s.editedBody = ""
		} else {
			s.editedBody = msg.Body
		}
		s.viewport.SetContent(renderMarkdown(s.Body(), s.width))
		s.viewport.GotoTop()
		if s.tmpFile != "" {
			_ = os.Remove(s.tmpFile)
			s.tmpFile = ""
		}
		return nil
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// openEditor launches $EDITOR on the current ticket body.
func (s *ReviewStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "skyvault_ticket_*.md")
	if err != nil {
		return nil
	}
	if _, err := tmpfile.WriteString(s.Body()); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	s.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("skyvault", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return nil
		}
		return BodyEditedMsg{Body: string(content)}
	})
}

// activateButton handles bar activation.
func (s *ReviewStep) activateButton(id wizard.ButtonID) tea.Cmd {
	switch id {
	case wizard.ButtonBack:
		return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
	case wizard.ButtonNext:
		return s.Submit()
	}
	return nil
}

// View renders the review step.
func (s *ReviewStep) View() string {
	t := theme.Current()

	if s.showDiff {
		return s.viewDiff()
	}

	var b strings.Builder

	for i, ack := range request.RequiredAcks {
		b.WriteString(checkboxRow(ack.Label, s.form.Acks[ack.ID], !s.buttonFocused && i == s.ackCursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	header := "Ticket preview"
	if s.Edited() {
		header += " (edited)"
	}
	b.WriteString(mutedStyle().Render(header))
	b.WriteString("\n")
	b.WriteString(s.viewport.View())
	b.WriteString("\n")

	if s.err != "" {
		b.WriteString(renderNotice("✗", s.err, t.Error))
		b.WriteString("\n")
	}

	b.WriteString(s.buttonBar.Render())
	b.WriteString("\n")

	pairs := []string{"space", "acknowledge", "pgup/pgdn", "scroll"}
	if os.Getenv("EDITOR") != "" {
		pairs = append(pairs, "e", "edit body")
	}
	if s.Edited() {
		pairs = append(pairs, "c", "changes")
	}
	pairs = append(pairs, "enter", "submit", "esc", "back")
	b.WriteString(renderHintBar(pairs...))

	return b.String()
}

// viewDiff renders a unified diff of the manual edits over the generated
// body.
func (s *ReviewStep) viewDiff() string {
	t := theme.Current()
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Primary)).
		Render("Manual edits")
	b.WriteString(title)
	b.WriteString("\n\n")

	diff := udiff.Unified("generated", "edited", s.generated, s.editedBody)
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	delStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error))
	hunkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info))

	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(delStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar("any key", "close"))
	return b.String()
}

// SetSize updates the dimensions for the review step.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.buttonBar.SetWidth(width)
	s.viewport.SetWidth(width)

	// Acks, preview header, buttons and hints take a fixed share.
	viewportHeight := height - len(request.RequiredAcks) - 6
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	s.viewport.SetHeight(viewportHeight)
	s.refreshPreview()
}

// Focus re-enters the acknowledgement list.
func (s *ReviewStep) Focus() {
	s.buttonFocused = false
	s.buttonBar.Blur()
	s.refreshPreview()
}

// Blur is a no-op; the step has no free-text inputs.
func (s *ReviewStep) Blur() {}

// Submit validates the acknowledgements and asks the wizard to file the
// ticket.
func (s *ReviewStep) Submit() tea.Cmd {
	if err := request.Ready(request.StepReview, s.form); err != nil {
		var blockedErr *request.BlockedError
		if errors.As(err, &blockedErr) {
			s.err = blockedErr.Reason
		} else {
			s.err = err.Error()
		}
		return nil
	}
	s.err = ""
	return func() tea.Msg {
		return SubmitRequestMsg{}
	}
}

// BodyEditedMsg is sent when the external editor returns.
type BodyEditedMsg struct {
	Body string
}
