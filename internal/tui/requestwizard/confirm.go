package requestwizard

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/skyvaultcloud/skyvault/internal/tiers"
)

// ProgramSender is an interface for sending messages to the Bubbletea
// program. This allows for easier testing by mocking the Send method.
type ProgramSender interface {
	Send(tea.Msg)
}

// ConfirmRequest is one pending confirmation. The issuing goroutine blocks
// on resp until the wizard resolves the modal.
type ConfirmRequest struct {
	Prompt tiers.Prompt
	resp   chan bool
}

// Resolve answers the request. Safe to call exactly once.
func (r *ConfirmRequest) Resolve(ok bool) {
	r.resp <- ok
}

// modalConfirmer bridges the comparator's blocking Confirm call into the
// wizard's event loop: it sends a ConfirmRequestMsg and waits for the user
// to resolve it through the modal.
type modalConfirmer struct {
	program ProgramSender
}

func newModalConfirmer(program ProgramSender) *modalConfirmer {
	return &modalConfirmer{program: program}
}

// Confirm implements tiers.Confirmer. It runs on a command goroutine, never
// on the update loop, so blocking on the channel is safe.
func (c *modalConfirmer) Confirm(ctx context.Context, p tiers.Prompt) (bool, error) {
	req := &ConfirmRequest{Prompt: p, resp: make(chan bool, 1)}
	c.program.Send(ConfirmRequestMsg{Request: req})

	select {
	case ok := <-req.resp:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
