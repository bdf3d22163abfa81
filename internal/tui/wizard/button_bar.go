package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
)

// TabExitForwardMsg is sent when focus tabs forward out of a step's
// content and should land on the button bar.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when focus tabs backward out of a step's
// content and should land on the button bar.
type TabExitBackwardMsg struct{}

// ButtonID identifies a button within a bar so steps can act on
// activation without caring about button order.
type ButtonID int

const (
	ButtonBack ButtonID = iota
	ButtonNext
	ButtonCancel
	ButtonNone ButtonID = -1
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling and a
// single focus cursor. Disabled buttons are skipped during focus moves.
type ButtonBar struct {
	buttons []Button
	focused int // index into buttons, -1 when blurred
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focused: -1,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// FocusFirst moves focus to the first enabled button. Returns false
// when no button is enabled.
func (b *ButtonBar) FocusFirst() bool {
	for i := range b.buttons {
		if b.buttons[i].State != ButtonDisabled {
			b.setFocus(i)
			return true
		}
	}
	return false
}

// FocusLast moves focus to the last enabled button.
func (b *ButtonBar) FocusLast() {
	for i := len(b.buttons) - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.setFocus(i)
			return
		}
	}
}

// FocusNext moves focus one enabled button to the right. Returns false
// when focus is already on the last enabled button.
func (b *ButtonBar) FocusNext() bool {
	for i := b.focused + 1; i < len(b.buttons); i++ {
		if b.buttons[i].State != ButtonDisabled {
			b.setFocus(i)
			return true
		}
	}
	return false
}

// FocusPrev moves focus one enabled button to the left. Returns false
// when focus is already on the first enabled button.
func (b *ButtonBar) FocusPrev() bool {
	for i := b.focused - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.setFocus(i)
			return true
		}
	}
	return false
}

// FocusedButton returns the ID of the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focused < 0 || b.focused >= len(b.buttons) {
		return ButtonNone
	}
	return b.buttons[b.focused].ID
}

// Blur removes focus from all buttons.
func (b *ButtonBar) Blur() {
	if b.focused >= 0 && b.focused < len(b.buttons) {
		b.buttons[b.focused].State = ButtonNormal
	}
	b.focused = -1
}

func (b *ButtonBar) setFocus(i int) {
	if b.focused >= 0 && b.focused < len(b.buttons) {
		b.buttons[b.focused].State = ButtonNormal
	}
	b.buttons[i].State = ButtonFocused
	b.focused = i
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := theme.Current()

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface0)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	disabledStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgMantle)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	focusedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.BorderFocused)).
		Bold(true).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	var renderedButtons []string
	for _, btn := range b.buttons {
		var rendered string
		switch btn.State {
		case ButtonDisabled:
			rendered = disabledStyle.Render(btn.Label)
		case ButtonFocused:
			rendered = focusedStyle.Render(btn.Label)
		default: // ButtonNormal
			rendered = normalStyle.Render(btn.Label)
		}
		renderedButtons = append(renderedButtons, rendered)
	}

	result := strings.Join(renderedButtons, "")

	// Center the button bar
	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, result)
}

// CreateBackNextButtons creates the standard Back/Next button set.
// nextEnabled is false while the current step is incomplete.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	buttons := make([]Button, 0, 2)

	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	buttons = append(buttons, Button{
		ID:    ButtonBack,
		Label: "← Back",
		State: backState,
	})

	nextState := ButtonNormal
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	buttons = append(buttons, Button{
		ID:    ButtonNext,
		Label: nextLabel,
		State: nextState,
	})

	return buttons
}

// CreateCancelNextButtons creates the Cancel/Next button set used on
// the opening step, where there is nothing to go back to.
func CreateCancelNextButtons(nextEnabled bool, nextLabel string) []Button {
	buttons := make([]Button, 0, 2)

	buttons = append(buttons, Button{
		ID:    ButtonCancel,
		Label: "Cancel",
		State: ButtonNormal,
	})

	nextState := ButtonNormal
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	buttons = append(buttons, Button{
		ID:    ButtonNext,
		Label: nextLabel,
		State: nextState,
	})

	return buttons
}
