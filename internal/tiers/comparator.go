// Package tiers implements tier resolution and the upgrade-only
// confirm/commit protocol against the backend tier service.
package tiers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/skyvaultcloud/skyvault/internal/backend"
	"github.com/skyvaultcloud/skyvault/internal/catalog"
	"github.com/skyvaultcloud/skyvault/internal/logger"
	"github.com/skyvaultcloud/skyvault/internal/request"
)

// StatusPending is the backend status that disables further tier changes
// until the external system resolves the open upgrade.
const StatusPending = "pending"

var (
	// ErrUpgradeInFlight means a comparison/submission is already running.
	// Callers treat it as "ignore this attempt"; the protocol never fires
	// two concurrent upgrade requests.
	ErrUpgradeInFlight = errors.New("tier upgrade already in flight")

	// ErrTierChangePending means the backend reports an unresolved upgrade.
	ErrTierChangePending = errors.New("a tier change is already pending approval")

	// ErrDeclined means the user cancelled the confirmation prompt. The
	// tier step stays not-ready; nothing was sent.
	ErrDeclined = errors.New("tier change declined")

	// ErrStale means the wizard moved on (branch reset) while the call was
	// in flight; the result must be discarded, not applied.
	ErrStale = errors.New("tier change result no longer relevant")
)

// ConflictError is a locally recoverable rejection: same tier or downgrade.
// The wizard shows a dismissible notice and nothing changes.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// PromptKind classifies a confirmation prompt for the dialog provider.
type PromptKind int

const (
	PromptInfo PromptKind = iota
	PromptWarning
	PromptSuccess
	PromptError
)

// Prompt is a blocking confirm/cancel request rendered by the injected
// dialog provider.
type Prompt struct {
	Kind    PromptKind
	Title   string
	Message string
}

// Confirmer renders a blocking modal prompt and resolves with the user's
// choice. The comparator awaits it before committing an upgrade.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// TierService is the backend surface the comparator needs.
type TierService interface {
	TierStatusByEmail(ctx context.Context, email string) (*backend.TierStatus, error)
	SubmitUpgrade(ctx context.Context, upgrade backend.UpgradeRequest) error
}

// Selection is a requested tier: either a catalog tier id or the custom
// pseudo-tier with a user-supplied capacity.
type Selection struct {
	TierID string
	Custom *catalog.Capacity
}

// Comparator resolves the user's current tier and gates tier changes to
// upgrades. It is safe to call from a background command goroutine.
type Comparator struct {
	catalog   *catalog.Catalog
	svc       TierService
	confirmer Confirmer
	email     string

	mu       sync.Mutex
	current  *backend.TierStatus
	inFlight bool
	epoch    int
}

// New creates a comparator for one user.
func New(cat *catalog.Catalog, svc TierService, confirmer Confirmer, email string) *Comparator {
	return &Comparator{catalog: cat, svc: svc, confirmer: confirmer, email: email}
}

// Load resolves the user's current tier from the backend. Called at tier
// step entry; a nil result means first-time use.
func (c *Comparator) Load(ctx context.Context) error {
	status, err := c.svc.TierStatusByEmail(ctx, c.email)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.current = status
	c.mu.Unlock()
	return nil
}

// Current returns the last loaded tier status, nil on first-time use.
func (c *Comparator) Current() *backend.TierStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Pending reports whether the backend has an unresolved upgrade.
func (c *Comparator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.Status == StatusPending
}

// Reset invalidates any in-flight result. Navigating away or resetting the
// branch does not cancel an issued call; bumping the epoch makes its
// eventual response irrelevant instead.
func (c *Comparator) Reset() {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()
}

// requested resolves a selection to its display name and canonical GB.
func (c *Comparator) requested(sel Selection) (name string, gb float64, err error) {
	if sel.TierID == catalog.CustomTierID || sel.Custom != nil {
		if sel.Custom == nil {
			return "", 0, fmt.Errorf("custom selection has no capacity")
		}
		gb = sel.Custom.CanonicalGB()
		if gb < catalog.MinCustomGB {
			return "", 0, &ConflictError{
				Reason: fmt.Sprintf("custom allocations start at %d GB", catalog.MinCustomGB),
			}
		}
		return sel.Custom.String(), gb, nil
	}
	tier, ok := c.catalog.ByID(sel.TierID)
	if !ok {
		return "", 0, fmt.Errorf("unknown tier %q", sel.TierID)
	}
	return tier.Title, tier.Capacity.CanonicalGB(), nil
}

// currentCapacity resolves the loaded status to canonical GB, preferring an
// explicit storage figure over the tier name.
func (c *Comparator) currentCapacity(status *backend.TierStatus) (string, float64, error) {
	if status.CurrentStorage != "" {
		cap, err := catalog.ParseCapacity(status.CurrentStorage)
		if err == nil {
			name := status.Tier()
			if name == "" {
				name = status.CurrentStorage
			}
			return name, cap.CanonicalGB(), nil
		}
	}
	cap, err := c.catalog.Resolve(status.Tier())
	if err != nil {
		return "", 0, err
	}
	return status.Tier(), cap.CanonicalGB(), nil
}

// Apply runs the full protocol for one selection: normalize both sides,
// accept first-time selections outright, reject same-tier and downgrades,
// and otherwise confirm with the user before committing the upgrade to the
// backend. On success it returns the change snapshot the form records; a
// first-time selection returns nil.
//
// Only one Apply may be in flight; concurrent attempts get
// ErrUpgradeInFlight and must be ignored. A Reset during the network call
// turns the result into ErrStale so it is discarded rather than applied.
func (c *Comparator) Apply(ctx context.Context, sel Selection) (*request.TierChange, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrUpgradeInFlight
	}
	c.inFlight = true
	epoch := c.epoch
	current := c.current
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if current != nil && current.Status == StatusPending {
		return nil, ErrTierChangePending
	}

	reqName, reqGB, err := c.requested(sel)
	if err != nil {
		return nil, err
	}

	// First-time selection: nothing to compare against, accept outright.
	if current == nil || current.Tier() == "" {
		logger.Debug("First-time tier selection: %s (%g GB)", reqName, reqGB)
		return nil, nil
	}

	curName, curGB, err := c.currentCapacity(current)
	if err != nil {
		return nil, err
	}

	switch {
	case reqGB == curGB:
		return nil, &ConflictError{Reason: fmt.Sprintf("you are already on the %s tier", curName)}
	case reqGB < curGB:
		return nil, &ConflictError{
			Reason: fmt.Sprintf("downgrade not permitted: %s is below your current %s", reqName, curName),
		}
	}

	ok, err := c.confirmer.Confirm(ctx, Prompt{
		Kind:  PromptWarning,
		Title: "Confirm tier upgrade",
		Message: fmt.Sprintf("Upgrade from %s (%g GB) to %s (%g GB)?\nThe change takes effect once approved.",
			curName, curGB, reqName, reqGB),
	})
	if err != nil {
		return nil, fmt.Errorf("confirming upgrade: %w", err)
	}
	if !ok {
		return nil, ErrDeclined
	}

	upgrade := backend.UpgradeRequest{
		Email:           c.email,
		PreviousTier:    curName,
		NewTier:         reqName,
		PreviousStorage: formatGB(curGB),
		NewStorage:      formatGB(reqGB),
		Status:          StatusPending,
	}
	if err := c.svc.SubmitUpgrade(ctx, upgrade); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		logger.Debug("Discarding tier upgrade result: wizard moved on")
		return nil, ErrStale
	}
	if c.current != nil {
		c.current.Status = StatusPending
	}

	return &request.TierChange{
		PreviousTier:    upgrade.PreviousTier,
		NewTier:         upgrade.NewTier,
		PreviousStorage: upgrade.PreviousStorage,
		NewStorage:      upgrade.NewStorage,
		Status:          upgrade.Status,
	}, nil
}

func formatGB(gb float64) string {
	return catalog.Capacity{Amount: gb, Unit: catalog.UnitGB}.String()
}
