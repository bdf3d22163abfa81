package requestwizard

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

func TestCompletionStep_New(t *testing.T) {
	step := NewCompletionStep("REQ-4821")

	if step.ticketID != "REQ-4821" {
		t.Errorf("ticketID = %q", step.ticketID)
	}
	if step.buttonBar == nil {
		t.Error("Expected buttonBar to be initialized")
	}
	if !step.buttonFocused {
		t.Error("Expected buttonFocused to be true on creation")
	}
}

func TestCompletionStep_View(t *testing.T) {
	step := NewCompletionStep("REQ-4821")
	step.Init()
	step.SetSize(80, 24)

	view := step.View()
	if !strings.Contains(view, "Request Filed!") {
		t.Error("Expected success message")
	}
	if !strings.Contains(view, "REQ-4821") {
		t.Error("Expected view to contain the ticket id")
	}
	if !strings.Contains(view, "New Request") || !strings.Contains(view, "Exit") {
		t.Error("Expected both buttons in the view")
	}
}

func TestCompletionStep_KeyboardNavigation(t *testing.T) {
	step := NewCompletionStep("REQ-1")
	step.Init()

	if step.buttonBar.FocusedButton() != wizard.ButtonBack {
		t.Error("Expected first button to be focused initially")
	}

	step.Update(keyPress("tab"))
	if step.buttonBar.FocusedButton() != wizard.ButtonNext {
		t.Error("Expected second button focused after tab")
	}

	// Tab wraps around.
	step.Update(keyPress("tab"))
	if step.buttonBar.FocusedButton() != wizard.ButtonBack {
		t.Error("Expected focus to wrap to the first button")
	}

	step.Update(keyPress("shift+tab"))
	if step.buttonBar.FocusedButton() != wizard.ButtonNext {
		t.Error("Expected focus to move backward with shift+tab")
	}
}

func TestCompletionStep_NewRequestButton(t *testing.T) {
	step := NewCompletionStep("REQ-1")
	step.Init()
	step.buttonBar.FocusFirst()

	cmd := step.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("Expected enter on New Request to return a command")
	}
	if _, ok := cmd().(RestartWizardMsg); !ok {
		t.Errorf("Expected RestartWizardMsg, got %T", cmd())
	}
}

func TestCompletionStep_ExitButton(t *testing.T) {
	step := NewCompletionStep("REQ-1")
	step.Init()
	step.buttonBar.FocusFirst()
	step.Update(keyPress("tab"))

	cmd := step.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("Expected enter on Exit to return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg, got %T", cmd())
	}
}
