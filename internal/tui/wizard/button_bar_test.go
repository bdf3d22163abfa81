package wizard

import (
	"strings"
	"testing"
)

func TestButtonBarFocusSkipsDisabled(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(false, true, "Next →"))

	if !bar.FocusFirst() {
		t.Fatal("FocusFirst() found no enabled button")
	}
	// Back is disabled, so the first enabled button is Next.
	if bar.FocusedButton() != ButtonNext {
		t.Errorf("FocusedButton() = %v, want ButtonNext", bar.FocusedButton())
	}
}

func TestButtonBarFocusBoundaries(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, true, "Next →"))

	bar.FocusFirst()
	if bar.FocusedButton() != ButtonBack {
		t.Fatalf("FocusedButton() = %v, want ButtonBack", bar.FocusedButton())
	}

	if !bar.FocusNext() {
		t.Fatal("FocusNext() failed with another enabled button ahead")
	}
	if bar.FocusedButton() != ButtonNext {
		t.Errorf("FocusedButton() = %v, want ButtonNext", bar.FocusedButton())
	}

	// Past the last button the caller takes over focus.
	if bar.FocusNext() {
		t.Error("FocusNext() wrapped instead of reporting the boundary")
	}

	bar.FocusLast()
	if bar.FocusedButton() != ButtonNext {
		t.Errorf("FocusLast() landed on %v", bar.FocusedButton())
	}
	if !bar.FocusPrev() {
		t.Fatal("FocusPrev() failed with another enabled button behind")
	}
	if bar.FocusPrev() {
		t.Error("FocusPrev() wrapped instead of reporting the boundary")
	}
}

func TestButtonBarBlur(t *testing.T) {
	bar := NewButtonBar(CreateCancelNextButtons(true, "Next →"))
	bar.FocusFirst()
	bar.Blur()

	if bar.FocusedButton() != ButtonNone {
		t.Errorf("FocusedButton() = %v after Blur, want ButtonNone", bar.FocusedButton())
	}
}

func TestButtonBarRenderShowsLabels(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, true, "Submit"))
	bar.SetWidth(70)

	out := bar.Render()
	if !strings.Contains(out, "← Back") || !strings.Contains(out, "Submit") {
		t.Errorf("Render() missing button labels: %q", out)
	}
}
