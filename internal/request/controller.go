package request

import "errors"

// ErrInvalidTransition signals a jump outside the resolved branch's legal
// step sequence. Normal UI flow never produces it; it exists to fail closed.
var ErrInvalidTransition = errors.New("invalid step transition")

// stepSequences is the explicit transition table: the legal step sequence
// for each resolved branch. The AWS and change branches skip tier selection;
// the storage branch always routes through it before the tail steps.
var stepSequences = map[Branch][]int{
	BranchUnset:   {StepRequestType},
	BranchAWS:     {StepRequestType, StepDetails, StepGrants, StepDelivery, StepReview},
	BranchStorage: {StepRequestType, StepDetails, StepTier, StepGrants, StepDelivery, StepReview},
	BranchChange:  {StepRequestType, StepDetails, StepGrants, StepDelivery, StepReview},
}

// Controller holds the wizard's current step pointer and branch selection.
// All navigation is checked against the branch's legal sequence.
type Controller struct {
	form *Form
	step int
}

// NewController creates a controller over the shared form, positioned at the
// first step with no branch resolved.
func NewController(form *Form) *Controller {
	return &Controller{form: form, step: StepRequestType}
}

// Form returns the shared accumulator.
func (c *Controller) Form() *Form { return c.form }

// Step returns the current step index.
func (c *Controller) Step() int { return c.step }

// Branch returns the resolved branch.
func (c *Controller) Branch() Branch { return c.form.RequestType }

// Path returns the legal step sequence for the resolved branch.
func (c *Controller) Path() []int {
	seq := stepSequences[c.form.RequestType]
	out := make([]int, len(seq))
	copy(out, seq)
	return out
}

// AtTerminal reports whether the current step is the branch's final step.
func (c *Controller) AtTerminal() bool {
	seq := stepSequences[c.form.RequestType]
	return len(seq) > 0 && c.step == seq[len(seq)-1]
}

// SelectBranch resolves the first-choice branch. Re-selecting the active
// branch is a no-op; switching branches clears every form field owned by the
// previously active branch before the new branch's fields become writable.
func (c *Controller) SelectBranch(b Branch) {
	if b == BranchUnset || b == c.form.RequestType {
		return
	}
	if prev := c.form.RequestType; prev != BranchUnset {
		c.form.resetBranch(prev)
	}
	c.form.RequestType = b
	c.form.bump()
}

// Advance moves to the next step in the branch sequence, but only when the
// current step's validator reports ready. A blocked step is a no-op with the
// blocking reason returned; there is no silent step skipping.
func (c *Controller) Advance() error {
	if err := Ready(c.step, c.form); err != nil {
		return err
	}
	seq := stepSequences[c.form.RequestType]
	idx := indexOf(seq, c.step)
	if idx < 0 || idx == len(seq)-1 {
		return ErrInvalidTransition
	}
	c.step = seq[idx+1]
	return nil
}

// Retreat moves to the previous step in the branch sequence unconditionally;
// back navigation never re-validates. On the first step it is a no-op.
func (c *Controller) Retreat() {
	seq := stepSequences[c.form.RequestType]
	idx := indexOf(seq, c.step)
	if idx > 0 {
		c.step = seq[idx-1]
	}
}

// JumpTo moves directly to step n when n belongs to the resolved branch's
// legal sequence. Out-of-branch targets leave the step unchanged and return
// ErrInvalidTransition.
func (c *Controller) JumpTo(n int) error {
	seq := stepSequences[c.form.RequestType]
	if indexOf(seq, n) < 0 {
		return ErrInvalidTransition
	}
	c.step = n
	return nil
}

func indexOf(seq []int, step int) int {
	for i, s := range seq {
		if s == step {
			return i
		}
	}
	return -1
}
