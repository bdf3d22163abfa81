// Package request holds the wizard core: the shared form accumulator, the
// per-step validators and the branch-aware step controller.
package request

import (
	"strings"

	"github.com/skyvaultcloud/skyvault/internal/catalog"
)

// MaxAliasSlots is the number of dedicated alias inputs. Requests beyond
// this count spill into the free-text overflow field.
const MaxAliasSlots = 6

// NotApplicable is the sentinel users type into fields that do not apply.
// The synthesizer prunes it the same way as an empty value.
const NotApplicable = "n/a"

// TierChange is the snapshot recorded when an upgrade is accepted. It is
// what the upgrade request sent to the backend contained.
type TierChange struct {
	PreviousTier    string `json:"previousTier"`
	NewTier         string `json:"newTier"`
	PreviousStorage string `json:"previousStorage"`
	NewStorage      string `json:"newStorage"`
	Status          string `json:"status"`
}

// Form is the single source of truth shared by reference across all wizard
// steps. Each step owns a disjoint group of fields; the only shared field is
// the request type. Every mutation goes through a setter so the version
// counter stays honest.
type Form struct {
	version int

	RequestType Branch

	// AWS branch
	AccountCount    int
	AccountAliases  [MaxAliasSlots]string
	AccountOverflow string

	// Storage branch
	BucketCount    int
	BucketAliases  [MaxAliasSlots]string
	BucketOverflow string
	TierID         string
	CustomCapacity *catalog.Capacity
	TierAccepted   bool
	TierChange     *TierChange

	// Change branch
	ResourceID  string
	ChangeKinds []string
	ChangeNotes string

	// Shared tail steps
	Grants           []AccessGrant
	FileSharing      *bool
	Channels         []string
	VolumePlan       string
	VolumeCustomGB   string
	LifecycleEnabled bool
	RetentionDays    string
	RetentionMonths  string
	Acks             map[string]bool
	ExtraNotes       string
}

// NewForm creates an empty form. It lives for one wizard session and is
// consumed read-only by the synthesizer at submission.
func NewForm() *Form {
	return &Form{Acks: make(map[string]bool)}
}

// Version returns the mutation counter. Validators re-evaluate whenever it
// changes; nothing caches readiness across versions.
func (f *Form) Version() int { return f.version }

func (f *Form) bump() { f.version++ }

func (f *Form) SetAccountCount(n int) {
	f.AccountCount = n
	f.bump()
}

func (f *Form) SetAccountAlias(slot int, v string) {
	if slot < 0 || slot >= MaxAliasSlots {
		return
	}
	f.AccountAliases[slot] = v
	f.bump()
}

func (f *Form) SetAccountOverflow(v string) {
	f.AccountOverflow = v
	f.bump()
}

func (f *Form) SetBucketCount(n int) {
	f.BucketCount = n
	f.bump()
}

func (f *Form) SetBucketAlias(slot int, v string) {
	if slot < 0 || slot >= MaxAliasSlots {
		return
	}
	f.BucketAliases[slot] = v
	f.bump()
}

func (f *Form) SetBucketOverflow(v string) {
	f.BucketOverflow = v
	f.bump()
}

// SetTierSelection records the tier the user is asking for. It does not mark
// the step ready; only the comparator's accept path does that.
func (f *Form) SetTierSelection(tierID string, custom *catalog.Capacity) {
	f.TierID = tierID
	f.CustomCapacity = custom
	f.TierAccepted = false
	f.TierChange = nil
	f.bump()
}

// AcceptTier marks the tier step ready with the committed change snapshot.
// A nil change means a first-time selection with nothing to upgrade.
func (f *Form) AcceptTier(change *TierChange) {
	f.TierAccepted = true
	f.TierChange = change
	f.bump()
}

// ClearTierAcceptance rolls the tier step back to not-ready, e.g. after a
// rejected or cancelled attempt.
func (f *Form) ClearTierAcceptance() {
	f.TierAccepted = false
	f.TierChange = nil
	f.bump()
}

func (f *Form) SetResourceID(v string) {
	f.ResourceID = v
	f.bump()
}

// ToggleChangeKind adds or removes one requested-change selection.
func (f *Form) ToggleChangeKind(kind string) {
	for i, k := range f.ChangeKinds {
		if k == kind {
			f.ChangeKinds = append(f.ChangeKinds[:i], f.ChangeKinds[i+1:]...)
			f.bump()
			return
		}
	}
	f.ChangeKinds = append(f.ChangeKinds, kind)
	f.bump()
}

func (f *Form) SetChangeNotes(v string) {
	f.ChangeNotes = v
	f.bump()
}

func (f *Form) AddGrant(g AccessGrant) {
	f.Grants = append(f.Grants, g)
	f.bump()
}

func (f *Form) RemoveGrant(i int) {
	if i < 0 || i >= len(f.Grants) {
		return
	}
	f.Grants = append(f.Grants[:i], f.Grants[i+1:]...)
	f.bump()
}

func (f *Form) SetFileSharing(enabled bool) {
	f.FileSharing = &enabled
	f.bump()
}

// ToggleChannel adds or removes a delivery channel selection.
func (f *Form) ToggleChannel(id string) {
	for i, c := range f.Channels {
		if c == id {
			f.Channels = append(f.Channels[:i], f.Channels[i+1:]...)
			f.bump()
			return
		}
	}
	f.Channels = append(f.Channels, id)
	f.bump()
}

func (f *Form) SetVolumePlan(plan string) {
	f.VolumePlan = plan
	f.bump()
}

func (f *Form) SetVolumeCustomGB(v string) {
	f.VolumeCustomGB = v
	f.bump()
}

func (f *Form) SetLifecycle(enabled bool) {
	f.LifecycleEnabled = enabled
	f.bump()
}

func (f *Form) SetRetentionDays(v string) {
	f.RetentionDays = v
	f.bump()
}

func (f *Form) SetRetentionMonths(v string) {
	f.RetentionMonths = v
	f.bump()
}

func (f *Form) SetAck(id string, checked bool) {
	f.Acks[id] = checked
	f.bump()
}

func (f *Form) SetExtraNotes(v string) {
	f.ExtraNotes = v
	f.bump()
}

// resetBranch clears every field owned by the given branch. Called by the
// controller when the user re-selects a different first choice, so stale
// cross-branch data never leaks into the final document.
func (f *Form) resetBranch(b Branch) {
	switch b {
	case BranchAWS:
		f.AccountCount = 0
		f.AccountAliases = [MaxAliasSlots]string{}
		f.AccountOverflow = ""
	case BranchStorage:
		f.BucketCount = 0
		f.BucketAliases = [MaxAliasSlots]string{}
		f.BucketOverflow = ""
		f.TierID = ""
		f.CustomCapacity = nil
		f.TierAccepted = false
		f.TierChange = nil
	case BranchChange:
		f.ResourceID = ""
		f.ChangeKinds = nil
		f.ChangeNotes = ""
	}
	f.bump()
}

// Blank reports whether a value is empty for validation and pruning
// purposes. The "n/a" sentinel counts as empty.
func Blank(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, NotApplicable) || t == "-"
}
