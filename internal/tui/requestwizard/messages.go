package requestwizard

import (
	"github.com/skyvaultcloud/skyvault/internal/backend"
	"github.com/skyvaultcloud/skyvault/internal/request"
)

// BranchChosenMsg is sent when the user commits the first-choice branch.
type BranchChosenMsg struct {
	Branch request.Branch
}

// DetailsSubmittedMsg is sent when the branch-details step validates.
type DetailsSubmittedMsg struct{}

// TierStatusLoadedMsg carries the user's current tier resolved at tier
// step entry. Status is nil on first-time use.
type TierStatusLoadedMsg struct {
	Status *backend.TierStatus
	Err    error
}

// TierAppliedMsg is sent when the comparator accepted a selection. Change
// is nil for a first-time selection with nothing to upgrade.
type TierAppliedMsg struct {
	Change *request.TierChange
}

// TierRejectedMsg is sent when the comparator rejected a selection with a
// locally recoverable conflict or a remote failure. The tier step shows a
// dismissible notice and stays not-ready.
type TierRejectedMsg struct {
	Err error
}

// TierSubmittedMsg is sent when the tier step is left forward after an
// accepted selection.
type TierSubmittedMsg struct{}

// GrantsSubmittedMsg is sent when the access-grants step is left forward.
type GrantsSubmittedMsg struct{}

// DeliverySubmittedMsg is sent when the delivery step validates.
type DeliverySubmittedMsg struct{}

// SubmitRequestMsg asks the wizard to file the ticket with the backend.
type SubmitRequestMsg struct{}

// SubmittedMsg is sent when the backend accepted the submission.
type SubmittedMsg struct {
	TicketID string
}

// SubmitErrorMsg is sent when the submission failed. The wizard shows the
// retry modal; the form is untouched.
type SubmitErrorMsg struct {
	Err error
}

// RetrySubmitMsg is sent when the user chooses to retry a failed submission.
type RetrySubmitMsg struct{}

// RestartWizardMsg is sent when the user confirmed starting over.
type RestartWizardMsg struct{}

// ConfirmRequestMsg carries a blocking confirmation prompt from a
// background command. The wizard renders the modal and resolves the
// request's channel with the user's choice.
type ConfirmRequestMsg struct {
	Request *ConfirmRequest
}
