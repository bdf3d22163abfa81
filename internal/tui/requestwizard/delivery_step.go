package requestwizard

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

// deliveryRowKind identifies one navigable row of the delivery step. The
// row list is rebuilt on every render because earlier answers decide which
// later rows exist at all.
type deliveryRowKind int

const (
	rowSharing deliveryRowKind = iota
	rowChannel
	rowPlan
	rowCustomGB
	rowLifecycle
	rowDays
	rowMonths
)

type deliveryRow struct {
	kind deliveryRowKind
	idx  int // channel or plan index
}

// DeliveryStep collects the file-sharing choice, delivery channels, volume
// plan and lifecycle retention settings.
type DeliveryStep struct {
	form   *request.Form
	width  int
	height int

	cursor      int
	customGB    textinput.Model
	daysInput   textinput.Model
	monthsInput textinput.Model
	err         string
}

// NewDeliveryStep creates the delivery step pre-filled from the form.
func NewDeliveryStep(form *request.Form) *DeliveryStep {
	custom := textinput.New()
	custom.Placeholder = "750"
	custom.CharLimit = 8
	custom.SetWidth(10)
	custom.SetValue(form.VolumeCustomGB)

	days := textinput.New()
	days.Placeholder = "30"
	days.CharLimit = 5
	days.SetWidth(8)
	days.SetValue(form.RetentionDays)

	months := textinput.New()
	months.Placeholder = "6"
	months.CharLimit = 4
	months.SetWidth(8)
	months.SetValue(form.RetentionMonths)

	return &DeliveryStep{
		form:        form,
		customGB:    custom,
		daysInput:   days,
		monthsInput: months,
	}
}

// rows returns the currently visible rows in display order.
func (s *DeliveryStep) rows() []deliveryRow {
	out := []deliveryRow{{kind: rowSharing}}
	if s.form.FileSharing != nil && *s.form.FileSharing {
		for i := range request.DeliveryChannels {
			out = append(out, deliveryRow{kind: rowChannel, idx: i})
		}
		if s.needsVolume() {
			for i := range request.VolumePlans {
				out = append(out, deliveryRow{kind: rowPlan, idx: i})
			}
			if s.form.VolumePlan == request.VolumePlanCustom {
				out = append(out, deliveryRow{kind: rowCustomGB})
			}
		}
	}
	out = append(out, deliveryRow{kind: rowLifecycle})
	if s.form.LifecycleEnabled {
		out = append(out, deliveryRow{kind: rowDays}, deliveryRow{kind: rowMonths})
	}
	return out
}

func (s *DeliveryStep) needsVolume() bool {
	for _, id := range s.form.Channels {
		for _, ch := range request.DeliveryChannels {
			if ch.ID == id && ch.NeedsVolumePlan {
				return true
			}
		}
	}
	return false
}

// Init initializes the delivery step.
func (s *DeliveryStep) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the delivery step.
func (s *DeliveryStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s.updateInput(msg)
	}

	rows := s.rows()
	if s.cursor >= len(rows) {
		s.cursor = len(rows) - 1
	}
	row := rows[s.cursor]

	switch keyMsg.String() {
	case "up", "k":
		if row.kind == rowDays || row.kind == rowMonths || row.kind == rowCustomGB {
			if keyMsg.String() == "k" {
				break // typing into the input
			}
		}
		if s.cursor > 0 {
			s.cursor--
			s.applyFocus()
		}
		return nil
	case "down", "j":
		if row.kind == rowDays || row.kind == rowMonths || row.kind == rowCustomGB {
			if keyMsg.String() == "j" {
				break
			}
		}
		if s.cursor < len(rows)-1 {
			s.cursor++
			s.applyFocus()
		}
		return nil
	case "tab":
		if s.cursor >= len(rows)-1 {
			return func() tea.Msg { return wizard.TabExitForwardMsg{} }
		}
		s.cursor++
		s.applyFocus()
		return nil
	case "shift+tab":
		if s.cursor == 0 {
			return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
		}
		s.cursor--
		s.applyFocus()
		return nil
	case "space", "enter":
		s.activate(row)
		return nil
	case "left", "right":
		if row.kind == rowSharing {
			s.form.SetFileSharing(keyMsg.String() == "left")
			return nil
		}
	}

	cmd := s.updateInput(msg)
	s.syncInputs()
	return cmd
}

// activate toggles or selects the given row.
func (s *DeliveryStep) activate(row deliveryRow) {
	switch row.kind {
	case rowSharing:
		if s.form.FileSharing == nil {
			s.form.SetFileSharing(true)
		} else {
			s.form.SetFileSharing(!*s.form.FileSharing)
		}
	case rowChannel:
		s.form.ToggleChannel(request.DeliveryChannels[row.idx].ID)
	case rowPlan:
		s.form.SetVolumePlan(request.VolumePlans[row.idx])
		s.applyFocus()
	case rowLifecycle:
		s.form.SetLifecycle(!s.form.LifecycleEnabled)
	}
}

func (s *DeliveryStep) updateInput(msg tea.Msg) tea.Cmd {
	rows := s.rows()
	if s.cursor >= len(rows) {
		return nil
	}
	var cmd tea.Cmd
	switch rows[s.cursor].kind {
	case rowCustomGB:
		s.customGB, cmd = s.customGB.Update(msg)
	case rowDays:
		s.daysInput, cmd = s.daysInput.Update(msg)
	case rowMonths:
		s.monthsInput, cmd = s.monthsInput.Update(msg)
	}
	return cmd
}

func (s *DeliveryStep) syncInputs() {
	if s.form.VolumeCustomGB != s.customGB.Value() {
		s.form.SetVolumeCustomGB(s.customGB.Value())
	}
	if s.form.RetentionDays != s.daysInput.Value() {
		s.form.SetRetentionDays(s.daysInput.Value())
	}
	if s.form.RetentionMonths != s.monthsInput.Value() {
		s.form.SetRetentionMonths(s.monthsInput.Value())
	}
}

func (s *DeliveryStep) applyFocus() {
	s.customGB.Blur()
	s.daysInput.Blur()
	s.monthsInput.Blur()
	rows := s.rows()
	if s.cursor >= len(rows) {
		return
	}
	switch rows[s.cursor].kind {
	case rowCustomGB:
		s.customGB.Focus()
	case rowDays:
		s.daysInput.Focus()
	case rowMonths:
		s.monthsInput.Focus()
	}
}

// View renders the delivery step content.
func (s *DeliveryStep) View() string {
	t := theme.Current()
	var b strings.Builder

	rows := s.rows()
	for i, row := range rows {
		selected := i == s.cursor
		switch row.kind {
		case rowSharing:
			answer := "unanswered"
			if s.form.FileSharing != nil {
				if *s.form.FileSharing {
					answer = "Yes"
				} else {
					answer = "No"
				}
			}
			b.WriteString(cursorRow("File sharing needed: "+answer, selected))
			b.WriteString("\n")
		case rowChannel:
			ch := request.DeliveryChannels[row.idx]
			checked := false
			for _, id := range s.form.Channels {
				if id == ch.ID {
					checked = true
				}
			}
			label := ch.Label
			if ch.NeedsVolumePlan {
				label += " (needs a volume plan)"
			}
			b.WriteString("  ")
			b.WriteString(checkboxRow(label, checked, selected))
			b.WriteString("\n")
		case rowPlan:
			plan := request.VolumePlans[row.idx]
			marker := "( )"
			if s.form.VolumePlan == plan {
				marker = "(•)"
			}
			b.WriteString("    ")
			b.WriteString(cursorRow(marker+" "+plan, selected))
			b.WriteString("\n")
		case rowCustomGB:
			b.WriteString("      ")
			b.WriteString(s.customGB.View())
			b.WriteString(" ")
			b.WriteString(mutedStyle().Render("GB / month"))
			b.WriteString("\n")
		case rowLifecycle:
			answer := "off"
			if s.form.LifecycleEnabled {
				answer = "on"
			}
			b.WriteString(cursorRow("Lifecycle management: "+answer, selected))
			b.WriteString("\n")
		case rowDays:
			b.WriteString("  ")
			b.WriteString(labelStyle().Render("Retention days:   "))
			b.WriteString(s.daysInput.View())
			b.WriteString("\n")
		case rowMonths:
			b.WriteString("  ")
			b.WriteString(labelStyle().Render("Retention months: "))
			b.WriteString(s.monthsInput.View())
			b.WriteString("\n")
		}
	}

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(renderNotice("✗", s.err, t.Error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar("↑↓", "navigate", "space", "toggle", "esc", "back"))
	return b.String()
}

// SetSize updates the size of the delivery step.
func (s *DeliveryStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus positions the cursor at the first row.
func (s *DeliveryStep) Focus() {
	s.cursor = 0
	s.applyFocus()
}

// Blur removes focus from the inputs.
func (s *DeliveryStep) Blur() {
	s.customGB.Blur()
	s.daysInput.Blur()
	s.monthsInput.Blur()
}

// Submit validates the step and emits DeliverySubmittedMsg when ready.
func (s *DeliveryStep) Submit() tea.Cmd {
	s.syncInputs()
	if err := request.Ready(request.StepDelivery, s.form); err != nil {
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
		return DeliverySubmittedMsg{}
	}
}
