package requestwizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

// changeKindOption is one selectable modification for the change branch.
type changeKindOption struct {
	id    string
	label string
}

var changeKindOptions = []changeKindOption{
	{"rename", "Rename the resource"},
	{"resize", "Resize / capacity change"},
	{"access-policy", "Access policy update"},
	{"region-migration", "Region migration"},
	{"decommission", "Decommission"},
}

// DetailsStep collects the branch-specific details: account or bucket
// counts and aliases for the provisioning branches, resource identifier
// and requested modifications for the change branch.
type DetailsStep struct {
	form   *request.Form
	width  int
	height int

	// Alias branches (AWS, storage)
	countInput  textinput.Model
	aliasInputs [request.MaxAliasSlots]textinput.Model
	overflow    textarea.Model

	// Change branch
	resourceInput textinput.Model
	kindCursor    int
	notes         textarea.Model

	focusIdx int
	err      string
}

// NewDetailsStep creates the details step pre-filled from the form so the
// user's entries survive back navigation.
func NewDetailsStep(form *request.Form) *DetailsStep {
	s := &DetailsStep{form: form}

	s.countInput = textinput.New()
	s.countInput.Placeholder = "1"
	s.countInput.CharLimit = 3
	s.countInput.SetWidth(8)

	count, aliases, overflowText := s.branchFields()
	if count > 0 {
		s.countInput.SetValue(strconv.Itoa(count))
	}

	for i := range s.aliasInputs {
		ti := textinput.New()
		ti.Placeholder = fmt.Sprintf("%s alias %d, e.g. 'finance'", s.noun(), i+1)
		ti.CharLimit = 80
		ti.SetWidth(44)
		ti.SetValue(aliases[i])
		s.aliasInputs[i] = ti
	}

	s.overflow = textarea.New()
	s.overflow.Placeholder = "One alias per line for the remaining resources"
	s.overflow.SetHeight(3)
	s.overflow.SetValue(overflowText)

	s.resourceInput = textinput.New()
	s.resourceInput.Placeholder = "e.g. skyv-bucket-finance"
	s.resourceInput.CharLimit = 120
	s.resourceInput.SetWidth(44)
	s.resourceInput.SetValue(form.ResourceID)

	s.notes = textarea.New()
	s.notes.Placeholder = "Anything the operator should know"
	s.notes.SetHeight(3)
	s.notes.SetValue(form.ChangeNotes)

	s.Focus()
	return s
}

func (s *DetailsStep) noun() string {
	if s.form.RequestType == request.BranchAWS {
		return "account"
	}
	return "bucket"
}

// branchFields returns the count, alias slots and overflow text owned by
// the active branch.
func (s *DetailsStep) branchFields() (int, [request.MaxAliasSlots]string, string) {
	if s.form.RequestType == request.BranchAWS {
		return s.form.AccountCount, s.form.AccountAliases, s.form.AccountOverflow
	}
	return s.form.BucketCount, s.form.BucketAliases, s.form.BucketOverflow
}

// Init initializes the details step.
func (s *DetailsStep) Init() tea.Cmd {
	return textinput.Blink
}

// count returns the parsed resource count, 0 when the field is not a
// positive integer.
func (s *DetailsStep) count() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.countInput.Value()))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// visibleSlots returns how many dedicated alias inputs the current count
// exposes.
func (s *DetailsStep) visibleSlots() int {
	n := s.count()
	if n > request.MaxAliasSlots {
		return request.MaxAliasSlots
	}
	return n
}

// focusables returns the number of focusable zones for the active branch.
func (s *DetailsStep) focusables() int {
	if s.form.RequestType == request.BranchChange {
		return 3 // resource id, kind list, notes
	}
	n := 1 + s.visibleSlots() // count + alias slots
	if s.count() > request.MaxAliasSlots {
		n++ // overflow textarea
	}
	return n
}

// Update handles messages for the details step.
func (s *DetailsStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			if s.inTextarea() && keyMsg.String() == "down" {
				break // let the textarea move its own cursor
			}
			if s.focusIdx >= s.focusables()-1 {
				if keyMsg.String() == "tab" {
					return func() tea.Msg { return wizard.TabExitForwardMsg{} }
				}
				return nil
			}
			s.focusIdx++
			s.applyFocus()
			return nil
		case "shift+tab", "up":
			if s.inTextarea() && keyMsg.String() == "up" {
				break
			}
			if s.focusIdx == 0 {
				if keyMsg.String() == "shift+tab" {
					return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
				}
				return nil
			}
			s.focusIdx--
			s.applyFocus()
			return nil
		}

		// Kind list navigation for the change branch.
		if s.form.RequestType == request.BranchChange && s.focusIdx == 1 {
			switch keyMsg.String() {
			case "j":
				if s.kindCursor < len(changeKindOptions)-1 {
					s.kindCursor++
				}
				return nil
			case "k":
				if s.kindCursor > 0 {
					s.kindCursor--
				}
				return nil
			case "space", "enter":
				s.form.ToggleChangeKind(changeKindOptions[s.kindCursor].id)
				return nil
			}
		}
	}

	cmd := s.updateFocusedInput(msg)
	s.syncForm()
	return cmd
}

// inTextarea reports whether the focused zone is a multi-line field.
func (s *DetailsStep) inTextarea() bool {
	if s.form.RequestType == request.BranchChange {
		return s.focusIdx == 2
	}
	return s.count() > request.MaxAliasSlots && s.focusIdx == s.focusables()-1
}

// updateFocusedInput forwards the message to whichever input has focus.
func (s *DetailsStep) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.form.RequestType == request.BranchChange {
		switch s.focusIdx {
		case 0:
			s.resourceInput, cmd = s.resourceInput.Update(msg)
		case 2:
			s.notes, cmd = s.notes.Update(msg)
		}
		return cmd
	}

	switch {
	case s.focusIdx == 0:
		s.countInput, cmd = s.countInput.Update(msg)
	case s.focusIdx <= s.visibleSlots():
		i := s.focusIdx - 1
		s.aliasInputs[i], cmd = s.aliasInputs[i].Update(msg)
	default:
		s.overflow, cmd = s.overflow.Update(msg)
	}
	return cmd
}

// syncForm writes the current input values into the shared form.
func (s *DetailsStep) syncForm() {
	switch s.form.RequestType {
	case request.BranchAWS:
		if s.form.AccountCount != s.count() {
			s.form.SetAccountCount(s.count())
		}
		for i := range s.aliasInputs {
			if s.form.AccountAliases[i] != s.aliasInputs[i].Value() {
				s.form.SetAccountAlias(i, s.aliasInputs[i].Value())
			}
		}
		if s.form.AccountOverflow != s.overflow.Value() {
			s.form.SetAccountOverflow(s.overflow.Value())
		}
	case request.BranchStorage:
		if s.form.BucketCount != s.count() {
			s.form.SetBucketCount(s.count())
		}
		for i := range s.aliasInputs {
			if s.form.BucketAliases[i] != s.aliasInputs[i].Value() {
				s.form.SetBucketAlias(i, s.aliasInputs[i].Value())
			}
		}
		if s.form.BucketOverflow != s.overflow.Value() {
			s.form.SetBucketOverflow(s.overflow.Value())
		}
	case request.BranchChange:
		if s.form.ResourceID != s.resourceInput.Value() {
			s.form.SetResourceID(s.resourceInput.Value())
		}
		if s.form.ChangeNotes != s.notes.Value() {
			s.form.SetChangeNotes(s.notes.Value())
		}
	}
}

// View renders the details step content.
func (s *DetailsStep) View() string {
	if s.form.RequestType == request.BranchChange {
		return s.viewChange()
	}
	return s.viewAliases()
}

func (s *DetailsStep) viewAliases() string {
	var b strings.Builder

	b.WriteString(labelStyle().Render(fmt.Sprintf("How many %ss do you need?", s.noun())))
	b.WriteString("\n")
	b.WriteString(s.countInput.View())
	b.WriteString("\n\n")

	slots := s.visibleSlots()
	if slots > 0 {
		b.WriteString(labelStyle().Render("Name each one:"))
		b.WriteString("\n")
		for i := 0; i < slots; i++ {
			b.WriteString(s.aliasInputs[i].View())
			b.WriteString("\n")
		}
	}

	if s.count() > request.MaxAliasSlots {
		b.WriteString("\n")
		b.WriteString(labelStyle().Render(fmt.Sprintf(
			"Aliases for the remaining %d %ss:", s.count()-request.MaxAliasSlots, s.noun())))
		b.WriteString("\n")
		b.WriteString(s.overflow.View())
		b.WriteString("\n")
	}

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(renderNotice("✗", s.err, theme.Current().Error))
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar("tab/↑↓", "next field", "esc", "back"))
	return b.String()
}

func (s *DetailsStep) viewChange() string {
	var b strings.Builder

	b.WriteString(labelStyle().Render("Which resource should be changed?"))
	b.WriteString("\n")
	b.WriteString(s.resourceInput.View())
	b.WriteString("\n\n")

	b.WriteString(labelStyle().Render("Requested changes:"))
	b.WriteString("\n")
	inList := s.focusIdx == 1
	for i, opt := range changeKindOptions {
		checked := false
		for _, k := range s.form.ChangeKinds {
			if k == opt.id {
				checked = true
			}
		}
		b.WriteString(checkboxRow(opt.label, checked, inList && i == s.kindCursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle().Render("Notes (optional):"))
	b.WriteString("\n")
	b.WriteString(s.notes.View())

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(renderNotice("✗", s.err, theme.Current().Error))
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar("tab/↑↓", "next field", "space", "toggle", "esc", "back"))
	return b.String()
}

// SetSize updates the size of the details step.
func (s *DetailsStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	inputWidth := width - 16
	if inputWidth < 20 {
		inputWidth = 20
	}
	for i := range s.aliasInputs {
		s.aliasInputs[i].SetWidth(inputWidth)
	}
	s.resourceInput.SetWidth(inputWidth)
	s.overflow.SetWidth(inputWidth)
	s.notes.SetWidth(inputWidth)
}

// Focus focuses the first input zone.
func (s *DetailsStep) Focus() {
	s.focusIdx = 0
	s.applyFocus()
}

// FocusLast focuses the last input zone.
func (s *DetailsStep) FocusLast() {
	s.focusIdx = s.focusables() - 1
	s.applyFocus()
}

// Blur removes focus from all inputs.
func (s *DetailsStep) Blur() {
	s.countInput.Blur()
	for i := range s.aliasInputs {
		s.aliasInputs[i].Blur()
	}
	s.overflow.Blur()
	s.resourceInput.Blur()
	s.notes.Blur()
}

func (s *DetailsStep) applyFocus() {
	s.Blur()
	if s.form.RequestType == request.BranchChange {
		switch s.focusIdx {
		case 0:
			s.resourceInput.Focus()
		case 2:
			s.notes.Focus()
		}
		return
	}

	switch {
	case s.focusIdx == 0:
		s.countInput.Focus()
	case s.focusIdx <= s.visibleSlots():
		s.aliasInputs[s.focusIdx-1].Focus()
	default:
		s.overflow.Focus()
	}
}

// Submit validates the step and emits DetailsSubmittedMsg when ready.
func (s *DetailsStep) Submit() tea.Cmd {
	s.syncForm()
	if err := request.Ready(request.StepDetails, s.form); err != nil {
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
		return DetailsSubmittedMsg{}
	}
}
