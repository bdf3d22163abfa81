package request

import "fmt"

// Branch is the mutually-exclusive first choice that determines the wizard's
// legal step sequence.
type Branch int

const (
	BranchUnset Branch = iota
	BranchAWS
	BranchStorage
	BranchChange
)

// String returns the wire value used in payloads and documents.
func (b Branch) String() string {
	switch b {
	case BranchAWS:
		return "aws"
	case BranchStorage:
		return "storage"
	case BranchChange:
		return "change"
	default:
		return "unset"
	}
}

// Label returns the human-readable name shown in the wizard.
func (b Branch) Label() string {
	switch b {
	case BranchAWS:
		return "New AWS accounts"
	case BranchStorage:
		return "New storage buckets"
	case BranchChange:
		return "Change an existing resource"
	default:
		return "Not selected"
	}
}

// ParseBranch parses a wire value back into a Branch.
func ParseBranch(s string) (Branch, error) {
	switch s {
	case "aws":
		return BranchAWS, nil
	case "storage":
		return BranchStorage, nil
	case "change":
		return BranchChange, nil
	default:
		return BranchUnset, fmt.Errorf("unknown request type: %q", s)
	}
}

// AccessLevel is the permission granted to one access-grant row.
type AccessLevel int

const (
	AccessRead AccessLevel = iota
	AccessWrite
	AccessBoth
)

// String returns the payload value for the access level.
func (a AccessLevel) String() string {
	switch a {
	case AccessWrite:
		return "Write"
	case AccessBoth:
		return "Read & Write"
	default:
		return "Read"
	}
}

// Next cycles to the following access level, wrapping around.
func (a AccessLevel) Next() AccessLevel {
	switch a {
	case AccessRead:
		return AccessWrite
	case AccessWrite:
		return AccessBoth
	default:
		return AccessRead
	}
}

// AccessGrant is one row of the access-grant list. Rows are ordered and may
// be duplicated; the wizard only appends and removes.
type AccessGrant struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Level    AccessLevel
}
