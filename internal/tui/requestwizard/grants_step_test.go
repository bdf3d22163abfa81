package requestwizard

import (
	"strings"
	"testing"

	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

func TestGrantsStep_AddRow(t *testing.T) {
	form := request.NewForm()
	step := NewGrantsStep(form)

	step.nameInput.SetValue("Ada Lovelace")
	step.emailInput.SetValue("ada@example.com")

	// Move focus to the access selector and cycle it once.
	step.Update(keyPress("tab"))
	step.Update(keyPress("tab"))
	step.Update(keyPress("right"))
	step.Update(keyPress("enter"))

	if len(form.Grants) != 1 {
		t.Fatalf("Grants = %v, want one row", form.Grants)
	}
	g := form.Grants[0]
	if g.FullName != "Ada Lovelace" || g.Email != "ada@example.com" || g.Level != request.AccessWrite {
		t.Errorf("grant = %+v", g)
	}

	// The entry form resets for the next row.
	if step.nameInput.Value() != "" || step.emailInput.Value() != "" {
		t.Error("entry inputs were not cleared after adding")
	}
	if step.level != request.AccessRead || step.focusIdx != 0 {
		t.Error("entry form did not reset to its initial state")
	}
}

func TestGrantsStep_AddRowRequiresNameOrEmail(t *testing.T) {
	form := request.NewForm()
	step := NewGrantsStep(form)

	step.Update(keyPress("tab"))
	step.Update(keyPress("tab"))
	step.Update(keyPress("enter"))

	if len(form.Grants) != 0 {
		t.Errorf("empty entry added a grant: %v", form.Grants)
	}
	if step.err == "" {
		t.Error("Expected an error notice for the empty entry")
	}
}

func TestGrantsStep_DuplicateRowsPermitted(t *testing.T) {
	form := request.NewForm()
	step := NewGrantsStep(form)

	for i := 0; i < 2; i++ {
		step.nameInput.SetValue("Grace Hopper")
		step.emailInput.SetValue("grace@example.com")
		step.Update(keyPress("tab"))
		step.Update(keyPress("tab"))
		step.Update(keyPress("enter"))
	}

	if len(form.Grants) != 2 {
		t.Errorf("Grants = %v, want two identical rows", form.Grants)
	}
}

func TestGrantsStep_RowListRemoval(t *testing.T) {
	form := request.NewForm()
	form.AddGrant(request.AccessGrant{FullName: "One", Email: "one@example.com"})
	form.AddGrant(request.AccessGrant{FullName: "Two", Email: "two@example.com"})
	step := NewGrantsStep(form)

	// Up from the entry form enters the row list at the last row.
	step.Update(keyPress("up"))
	if step.rowCursor != 1 {
		t.Fatalf("rowCursor = %d, want the last row", step.rowCursor)
	}

	step.Update(keyPress("k"))
	step.Update(keyPress("d"))

	if len(form.Grants) != 1 || form.Grants[0].FullName != "Two" {
		t.Errorf("Grants = %v after removing the first row", form.Grants)
	}

	// Removing the last remaining row drops back to the entry form.
	step.Update(keyPress("d"))
	if len(form.Grants) != 0 {
		t.Errorf("Grants = %v, want empty", form.Grants)
	}
	if step.rowCursor != -1 {
		t.Error("Expected the entry form after the list emptied")
	}
}

func TestGrantsStep_TabExits(t *testing.T) {
	step := NewGrantsStep(request.NewForm())

	cmd := step.Update(keyPress("shift+tab"))
	if cmd == nil {
		t.Fatal("Expected shift+tab on the first field to exit backward")
	}
	if _, ok := cmd().(wizard.TabExitBackwardMsg); !ok {
		t.Errorf("Expected TabExitBackwardMsg, got %T", cmd())
	}

	step.Update(keyPress("tab"))
	step.Update(keyPress("tab"))
	cmd = step.Update(keyPress("tab"))
	if cmd == nil {
		t.Fatal("Expected tab past the access selector to exit forward")
	}
	if _, ok := cmd().(wizard.TabExitForwardMsg); !ok {
		t.Errorf("Expected TabExitForwardMsg, got %T", cmd())
	}
}

func TestGrantsStep_SubmitAlwaysReady(t *testing.T) {
	step := NewGrantsStep(request.NewForm())

	cmd := step.Submit()
	if cmd == nil {
		t.Fatal("Submit() = nil, the grant list is unconstrained")
	}
	if _, ok := cmd().(GrantsSubmittedMsg); !ok {
		t.Errorf("Expected GrantsSubmittedMsg, got %T", cmd())
	}
}

func TestGrantsStep_ViewListsRows(t *testing.T) {
	form := request.NewForm()
	form.AddGrant(request.AccessGrant{FullName: "Lee Park", Email: "lee@example.com", Level: request.AccessBoth})
	step := NewGrantsStep(form)
	step.SetSize(80, 20)

	view := step.View()
	if !strings.Contains(view, "Lee Park") || !strings.Contains(view, "Read & Write") {
		t.Error("Expected the grant row in the view")
	}
	if !strings.Contains(view, "Access: Read") {
		t.Error("Expected the entry form's access selector")
	}
}
