package requestwizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/skyvaultcloud/skyvault/internal/backend"
	"github.com/skyvaultcloud/skyvault/internal/catalog"
	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tiers"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
)

// TierStep handles service tier selection through the comparator's
// confirm/commit protocol. The step is ready only after an accepted
// selection; conflicts and remote failures surface as dismissible notices.
type TierStep struct {
	form       *request.Form
	comparator *tiers.Comparator
	cat        *catalog.Catalog
	ctx        context.Context

	cursor      int
	amountInput textinput.Model
	customUnit  catalog.Unit
	spinner     spinner.Model
	loading     bool // current-tier fetch in flight
	applying    bool // comparator protocol in flight
	loadErr     string
	notice      string
	noticeKind  tiers.PromptKind
	width       int
	height      int
}

// NewTierStep creates the tier selection step.
func NewTierStep(ctx context.Context, form *request.Form, comparator *tiers.Comparator, cat *catalog.Catalog) *TierStep {
	amount := textinput.New()
	amount.Placeholder = "250"
	amount.CharLimit = 8
	amount.SetWidth(10)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	s := &TierStep{
		form:        form,
		comparator:  comparator,
		cat:         cat,
		ctx:         ctx,
		amountInput: amount,
		customUnit:  catalog.UnitGB,
		spinner:     sp,
		loading:     true,
	}

	// Restore a previous selection on back navigation.
	if form.TierID != "" {
		for i, t := range cat.All() {
			if t.ID == form.TierID {
				s.cursor = i
			}
		}
		if form.TierID == catalog.CustomTierID && form.CustomCapacity != nil {
			s.cursor = len(cat.All())
			s.amountInput.SetValue(strconv.FormatFloat(form.CustomCapacity.Amount, 'f', -1, 64))
			s.customUnit = form.CustomCapacity.Unit
		}
	}

	return s
}

// Init starts the current-tier fetch and the spinner.
func (s *TierStep) Init() tea.Cmd {
	return tea.Batch(s.loadStatus(), s.spinner.Tick, textinput.Blink)
}

// loadStatus resolves the user's current tier in the background.
func (s *TierStep) loadStatus() tea.Cmd {
	return func() tea.Msg {
		err := s.comparator.Load(s.ctx)
		return TierStatusLoadedMsg{Status: s.comparator.Current(), Err: err}
	}
}

// customSelected reports whether the cursor sits on the custom row.
func (s *TierStep) customSelected() bool {
	return s.cursor == len(s.cat.All())
}

// Update handles messages for the tier step.
func (s *TierStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TierStatusLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.loadErr = msg.Err.Error()
		} else {
			s.loadErr = ""
		}
		return nil

	case TierAppliedMsg:
		s.applying = false
		s.form.AcceptTier(msg.Change)
		s.notice = "Tier selection confirmed"
		s.noticeKind = tiers.PromptSuccess
		return nil

	case TierRejectedMsg:
		s.applying = false
		s.describeRejection(msg.Err)
		return nil

	case spinner.TickMsg:
		if s.loading || s.applying {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.customSelected() {
		var cmd tea.Cmd
		s.amountInput, cmd = s.amountInput.Update(msg)
		return cmd
	}
	return nil
}

func (s *TierStep) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	// A visible notice swallows the first keypress to dismiss it.
	if s.notice != "" && s.noticeKind != tiers.PromptSuccess {
		s.notice = ""
		return nil
	}

	if s.loadErr != "" && msg.String() == "r" {
		s.loading = true
		s.loadErr = ""
		return tea.Batch(s.loadStatus(), s.spinner.Tick)
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
			s.syncFocus()
		}
		return nil
	case "down", "j":
		if s.cursor < len(s.cat.All()) {
			s.cursor++
			s.syncFocus()
		}
		return nil
	case "g", "t":
		// Unit switch only applies while typing a custom capacity.
		if s.customSelected() {
			s.customUnit = catalog.UnitGB
			if msg.String() == "t" {
				s.customUnit = catalog.UnitTB
			}
		}
		return nil
	case "enter":
		return s.apply()
	}

	if s.customSelected() {
		var cmd tea.Cmd
		s.amountInput, cmd = s.amountInput.Update(msg)
		return cmd
	}
	return nil
}

func (s *TierStep) syncFocus() {
	if s.customSelected() {
		s.amountInput.Focus()
	} else {
		s.amountInput.Blur()
	}
}

// apply records the highlighted selection on the form and runs the
// comparator protocol in the background. A second attempt while one is in
// flight is ignored by the comparator's guard.
func (s *TierStep) apply() tea.Cmd {
	if s.loading || s.applying {
		return nil
	}
	if s.comparator.Pending() {
		s.notice = "A tier change is pending approval; no further changes until it resolves"
		s.noticeKind = tiers.PromptWarning
		return nil
	}

	var sel tiers.Selection
	if s.customSelected() {
		amount, err := strconv.ParseFloat(strings.TrimSpace(s.amountInput.Value()), 64)
		if err != nil || amount <= 0 {
			s.notice = "Enter a positive custom capacity"
			s.noticeKind = tiers.PromptError
			return nil
		}
		cap := &catalog.Capacity{Amount: amount, Unit: s.customUnit}
		s.form.SetTierSelection(catalog.CustomTierID, cap)
		sel = tiers.Selection{TierID: catalog.CustomTierID, Custom: cap}
	} else {
		tier := s.cat.All()[s.cursor]
		s.form.SetTierSelection(tier.ID, nil)
		sel = tiers.Selection{TierID: tier.ID}
	}

	s.applying = true
	s.notice = ""
	comparator := s.comparator
	ctx := s.ctx
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		change, err := comparator.Apply(ctx, sel)
		if err != nil {
			return TierRejectedMsg{Err: err}
		}
		return TierAppliedMsg{Change: change}
	})
}

// describeRejection maps protocol errors onto the step notice.
func (s *TierStep) describeRejection(err error) {
	var conflict *tiers.ConflictError
	var remote *backend.RemoteError
	switch {
	case errors.Is(err, tiers.ErrUpgradeInFlight):
		// Duplicate attempt; the winning attempt will resolve the UI.
		s.applying = true
	case errors.Is(err, tiers.ErrDeclined):
		s.notice = "Upgrade cancelled; pick a tier to continue"
		s.noticeKind = tiers.PromptInfo
	case errors.Is(err, tiers.ErrStale):
		s.notice = ""
	case errors.Is(err, tiers.ErrTierChangePending):
		s.notice = "A tier change is pending approval; no further changes until it resolves"
		s.noticeKind = tiers.PromptWarning
	case errors.As(err, &conflict):
		s.notice = conflict.Reason
		s.noticeKind = tiers.PromptWarning
	case errors.As(err, &remote):
		s.notice = fmt.Sprintf("Backend error: %s (press any key, then retry)", remote.Message)
		s.noticeKind = tiers.PromptError
	default:
		s.notice = err.Error()
		s.noticeKind = tiers.PromptError
	}
}

// View renders the tier step content.
func (s *TierStep) View() string {
	t := theme.Current()
	var b strings.Builder

	if s.loading {
		b.WriteString(s.spinner.View())
		b.WriteString(" Looking up your current tier...\n")
		return b.String()
	}

	if s.loadErr != "" {
		b.WriteString(renderNotice("✗", "Could not load your current tier: "+s.loadErr, t.Error))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("r", "retry", "esc", "back"))
		return b.String()
	}

	if current := s.comparator.Current(); current != nil && current.Tier() != "" {
		label := fmt.Sprintf("Current tier: %s", current.Tier())
		if current.CurrentStorage != "" {
			label += fmt.Sprintf(" (%s)", current.CurrentStorage)
		}
		if current.Status == tiers.StatusPending {
			label += " — change pending approval"
		}
		b.WriteString(mutedStyle().Render(label))
		b.WriteString("\n\n")
	}

	for i, tier := range s.cat.All() {
		label := fmt.Sprintf("%-12s %8s  %s", tier.Title, tier.Capacity.String(), tier.ResponseTime)
		if s.form.TierAccepted && s.form.TierID == tier.ID {
			label += " ✓"
		}
		b.WriteString(cursorRow(label, i == s.cursor))
		b.WriteString("\n")
	}

	customLabel := "Custom allocation"
	if s.form.TierAccepted && s.form.TierID == catalog.CustomTierID {
		customLabel += " ✓"
	}
	b.WriteString(cursorRow(customLabel, s.customSelected()))
	b.WriteString("\n")

	if s.customSelected() {
		b.WriteString("  ")
		b.WriteString(s.amountInput.View())
		b.WriteString(" ")
		b.WriteString(labelStyle().Render(string(s.customUnit)))
		b.WriteString("  ")
		b.WriteString(mutedStyle().Render(fmt.Sprintf("(min %d GB; g/t switches unit)", catalog.MinCustomGB)))
		b.WriteString("\n")
	}

	if s.applying {
		b.WriteString("\n")
		b.WriteString(s.spinner.View())
		b.WriteString(mutedStyle().Render(" Checking with the tier service..."))
		b.WriteString("\n")
	}

	if s.notice != "" {
		color := t.Info
		icon := "ℹ"
		switch s.noticeKind {
		case tiers.PromptWarning:
			color, icon = t.Warning, "⚠"
		case tiers.PromptError:
			color, icon = t.Error, "✗"
		case tiers.PromptSuccess:
			color, icon = t.Success, "✓"
		}
		b.WriteString("\n")
		b.WriteString(renderNotice(icon, s.notice, color))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar("↑↓/j/k", "navigate", "enter", "select", "esc", "back"))
	return b.String()
}

// SetSize updates the size of the tier step.
func (s *TierStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus re-activates the custom input when it is highlighted.
func (s *TierStep) Focus() {
	s.syncFocus()
}

// Blur removes focus from the custom input.
func (s *TierStep) Blur() {
	s.amountInput.Blur()
}

// Submit gates forward navigation on an accepted selection.
func (s *TierStep) Submit() tea.Cmd {
	if err := request.Ready(request.StepTier, s.form); err != nil {
		var blockedErr *request.BlockedError
		if errors.As(err, &blockedErr) {
			s.notice = blockedErr.Reason
		} else {
			s.notice = err.Error()
		}
		s.noticeKind = tiers.PromptWarning
		return nil
	}
	return func() tea.Msg {
		return TierSubmittedMsg{}
	}
}
