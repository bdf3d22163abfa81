package requestwizard

import (
	"context"
	"strings"
	"testing"

	"github.com/skyvaultcloud/skyvault/internal/backend"
	"github.com/skyvaultcloud/skyvault/internal/catalog"
	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/tiers"
)

type stubTierService struct {
	status *backend.TierStatus
}

func (s *stubTierService) TierStatusByEmail(_ context.Context, _ string) (*backend.TierStatus, error) {
	return s.status, nil
}

func (s *stubTierService) SubmitUpgrade(_ context.Context, _ backend.UpgradeRequest) error {
	return nil
}

type stubConfirmer struct{ answer bool }

func (s stubConfirmer) Confirm(_ context.Context, _ tiers.Prompt) (bool, error) {
	return s.answer, nil
}

func newTestTierStep(t *testing.T, form *request.Form, status *backend.TierStatus) *TierStep {
	t.Helper()
	cat := catalog.MustLoad()
	comparator := tiers.New(cat, &stubTierService{status: status}, stubConfirmer{answer: true}, "dana@example.com")
	step := NewTierStep(context.Background(), form, comparator, cat)

	// Resolve the load synchronously the way the program loop would.
	step.Update(step.loadStatus()())
	return step
}

func TestTierStep_LoadResolvesSpinner(t *testing.T) {
	step := newTestTierStep(t, request.NewForm(), nil)

	if step.loading {
		t.Error("step still loading after the status arrived")
	}
	if step.loadErr != "" {
		t.Errorf("loadErr = %q", step.loadErr)
	}
}

func TestTierStep_SelectionRecordsOnForm(t *testing.T) {
	form := request.NewForm()
	step := newTestTierStep(t, form, nil)

	step.Update(keyPress("down"))
	step.Update(keyPress("enter"))

	if form.TierID != "team" {
		t.Errorf("TierID = %q, want team", form.TierID)
	}
	if form.TierAccepted {
		t.Error("selection marked accepted before the protocol resolved")
	}
	if !step.applying {
		t.Error("step not marked applying while the protocol runs")
	}

	step.Update(TierAppliedMsg{Change: nil})
	if !form.TierAccepted {
		t.Error("TierAppliedMsg did not accept the tier")
	}
	if step.applying {
		t.Error("step still applying after the result")
	}
	if step.noticeKind != tiers.PromptSuccess {
		t.Errorf("noticeKind = %v, want success", step.noticeKind)
	}
}

func TestTierStep_ConflictNotice(t *testing.T) {
	form := request.NewForm()
	step := newTestTierStep(t, form, &backend.TierStatus{SelectedTier: "Team", CurrentStorage: "300 GB"})

	step.Update(keyPress("enter")) // starter while on team
	step.Update(TierRejectedMsg{Err: &tiers.ConflictError{Reason: "downgrade not permitted"}})

	if step.applying {
		t.Error("rejected attempt left the step applying")
	}
	if !strings.Contains(step.notice, "downgrade not permitted") {
		t.Errorf("notice = %q", step.notice)
	}
	if step.noticeKind != tiers.PromptWarning {
		t.Errorf("noticeKind = %v, want warning", step.noticeKind)
	}
	if form.TierAccepted {
		t.Error("rejected attempt accepted the tier")
	}

	// The first keypress dismisses the notice instead of acting.
	step.Update(keyPress("down"))
	if step.notice != "" {
		t.Error("keypress did not dismiss the notice")
	}
}

func TestTierStep_PendingBlocksChanges(t *testing.T) {
	form := request.NewForm()
	step := newTestTierStep(t, form, &backend.TierStatus{
		SelectedTier:   "Team",
		CurrentStorage: "300 GB",
		Status:         tiers.StatusPending,
	})

	step.Update(keyPress("enter"))
	if !strings.Contains(step.notice, "pending approval") {
		t.Errorf("notice = %q", step.notice)
	}
	if step.applying {
		t.Error("pending state started the protocol anyway")
	}
}

func TestTierStep_CustomCapacityInput(t *testing.T) {
	form := request.NewForm()
	step := newTestTierStep(t, form, nil)

	// Walk to the custom row under the catalog tiers.
	for range catalog.MustLoad().All() {
		step.Update(keyPress("down"))
	}
	if !step.customSelected() {
		t.Fatal("cursor did not reach the custom row")
	}

	// No amount typed yet: a local error, nothing recorded.
	step.Update(keyPress("enter"))
	if step.applying || form.TierID != "" {
		t.Error("invalid custom amount started the protocol")
	}
	if step.noticeKind != tiers.PromptError || step.notice == "" {
		t.Error("invalid custom amount left no error notice")
	}

	step.Update(keyPress("down")) // dismisses the notice
	step.amountInput.SetValue("250")
	step.Update(keyPress("t"))
	if step.customUnit != catalog.UnitTB {
		t.Error("t did not switch the custom unit to TB")
	}
	step.Update(keyPress("g"))
	if step.customUnit != catalog.UnitGB {
		t.Error("g did not switch the custom unit back to GB")
	}

	step.Update(keyPress("enter"))
	if form.TierID != catalog.CustomTierID {
		t.Errorf("TierID = %q, want custom", form.TierID)
	}
	if form.CustomCapacity == nil || form.CustomCapacity.Amount != 250 || form.CustomCapacity.Unit != catalog.UnitGB {
		t.Errorf("CustomCapacity = %+v", form.CustomCapacity)
	}
}

func TestTierStep_SubmitRequiresAcceptance(t *testing.T) {
	form := request.NewForm()
	form.RequestType = request.BranchStorage
	step := newTestTierStep(t, form, nil)

	if cmd := step.Submit(); cmd != nil {
		t.Fatal("Submit() without an accepted tier should block")
	}
	if step.notice == "" {
		t.Error("blocked submit left no notice")
	}

	form.SetTierSelection("starter", nil)
	form.AcceptTier(nil)
	step.notice = ""
	cmd := step.Submit()
	if cmd == nil {
		t.Fatal("Submit() = nil with an accepted tier")
	}
	if _, ok := cmd().(TierSubmittedMsg); !ok {
		t.Errorf("Expected TierSubmittedMsg, got %T", cmd())
	}
}

func TestTierStep_RestoresPreviousSelection(t *testing.T) {
	form := request.NewForm()
	cap := &catalog.Capacity{Amount: 2, Unit: catalog.UnitTB}
	form.SetTierSelection(catalog.CustomTierID, cap)

	step := newTestTierStep(t, form, nil)
	if !step.customSelected() {
		t.Error("back navigation did not restore the custom row")
	}
	if step.amountInput.Value() != "2" || step.customUnit != catalog.UnitTB {
		t.Errorf("restored amount = %q unit = %q", step.amountInput.Value(), step.customUnit)
	}
}
