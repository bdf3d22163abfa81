package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Step indices. The controller's transition table decides which of these a
// branch actually visits.
const (
	StepRequestType = 1
	StepDetails     = 2
	StepTier        = 3
	StepGrants      = 4
	StepDelivery    = 5
	StepReview      = 6
)

// BlockedError reports why forward navigation from a step is currently not
// permitted. It is purely local: the caller disables its "next" affordance
// and nothing propagates.
type BlockedError struct {
	Step   int
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("step %d not ready: %s", e.Step, e.Reason)
}

func blocked(step int, format string, args ...interface{}) error {
	return &BlockedError{Step: step, Reason: fmt.Sprintf(format, args...)}
}

// DeliveryChannel describes one selectable delivery channel. Channels that
// move bulk data need a volume plan before the step is ready.
type DeliveryChannel struct {
	ID              string
	Label           string
	NeedsVolumePlan bool
}

// DeliveryChannels is the fixed channel set offered by the delivery step.
var DeliveryChannels = []DeliveryChannel{
	{ID: "https", Label: "HTTPS download links", NeedsVolumePlan: false},
	{ID: "sftp", Label: "SFTP drop zone", NeedsVolumePlan: true},
	{ID: "s3-sync", Label: "S3 bucket sync", NeedsVolumePlan: true},
}

// VolumePlanCustom marks a user-supplied volume instead of a preset.
const VolumePlanCustom = "custom"

// VolumePlans are the preset monthly transfer volumes.
var VolumePlans = []string{"100 GB / month", "500 GB / month", "2 TB / month", VolumePlanCustom}

// Acknowledgement is one required consent item on the terminal step.
type Acknowledgement struct {
	ID    string
	Label string
}

// RequiredAcks must all be checked before submission is permitted.
var RequiredAcks = []Acknowledgement{
	{ID: "accuracy", Label: "The information above is accurate and complete"},
	{ID: "billing", Label: "I accept the billing impact of this request"},
	{ID: "policy", Label: "This request complies with our data handling policy"},
}

// Ready reports whether forward navigation from the given step is currently
// permitted for the form's contents. It is side-effect-free and must be
// re-evaluated on every relevant mutation; callers never cache the result.
func Ready(step int, f *Form) error {
	switch step {
	case StepRequestType:
		if f.RequestType == BranchUnset {
			return blocked(step, "choose a request type")
		}
		return nil
	case StepDetails:
		return detailsReady(f)
	case StepTier:
		if !f.TierAccepted {
			return blocked(step, "select and confirm a service tier")
		}
		return nil
	case StepGrants:
		// Grant rows are unconstrained; an empty list is a valid request.
		return nil
	case StepDelivery:
		return deliveryReady(f)
	case StepReview:
		for _, ack := range RequiredAcks {
			if !f.Acks[ack.ID] {
				return blocked(step, "acknowledge: %s", ack.Label)
			}
		}
		return nil
	default:
		return blocked(step, "unknown step")
	}
}

func detailsReady(f *Form) error {
	switch f.RequestType {
	case BranchAWS:
		return aliasSlotsReady(StepDetails, "account", f.AccountCount, f.AccountAliases, f.AccountOverflow)
	case BranchStorage:
		return aliasSlotsReady(StepDetails, "bucket", f.BucketCount, f.BucketAliases, f.BucketOverflow)
	case BranchChange:
		if Blank(f.ResourceID) {
			return blocked(StepDetails, "enter the existing resource identifier")
		}
		if len(f.ChangeKinds) == 0 {
			return blocked(StepDetails, "select at least one requested change")
		}
		return nil
	default:
		return blocked(StepDetails, "no request type selected")
	}
}

// aliasSlotsReady enforces the alias-slot rules: with count up to the slot
// limit every slot up to the count must be filled; past the limit the first
// six slots and the overflow field are all required.
func aliasSlotsReady(step int, noun string, count int, aliases [MaxAliasSlots]string, overflow string) error {
	if count < 1 {
		return blocked(step, "enter how many %ss you need", noun)
	}
	slots := count
	if slots > MaxAliasSlots {
		slots = MaxAliasSlots
	}
	for i := 0; i < slots; i++ {
		if Blank(aliases[i]) {
			return blocked(step, "%s alias %d is empty", noun, i+1)
		}
	}
	if count > MaxAliasSlots && Blank(overflow) {
		return blocked(step, "list the remaining %d %s aliases in the overflow field", count-MaxAliasSlots, noun)
	}
	return nil
}

func deliveryReady(f *Form) error {
	if f.FileSharing == nil {
		return blocked(StepDelivery, "choose whether file sharing is needed")
	}
	if *f.FileSharing {
		if len(f.Channels) == 0 {
			return blocked(StepDelivery, "select at least one delivery channel")
		}
		if channelNeedsVolume(f.Channels) {
			if f.VolumePlan == "" {
				return blocked(StepDelivery, "pick a volume plan for the selected channels")
			}
			if f.VolumePlan == VolumePlanCustom {
				n, err := strconv.ParseFloat(strings.TrimSpace(f.VolumeCustomGB), 64)
				if err != nil || n <= 0 {
					return blocked(StepDelivery, "enter a valid custom volume in GB")
				}
			}
		}
	}
	if f.LifecycleEnabled && Blank(f.RetentionDays) && Blank(f.RetentionMonths) {
		return blocked(StepDelivery, "set a retention duration in days or months")
	}
	return nil
}

func channelNeedsVolume(selected []string) bool {
	for _, id := range selected {
		for _, ch := range DeliveryChannels {
			if ch.ID == id && ch.NeedsVolumePlan {
				return true
			}
		}
	}
	return false
}
