package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a storage unit accepted in tier definitions and custom requests.
type Unit string

const (
	UnitGB Unit = "GB"
	UnitTB Unit = "TB"
)

// gbPerTB is the canonical conversion factor between the two units.
const gbPerTB = 1024

// Capacity is a storage quantity with an explicit unit.
type Capacity struct {
	Amount float64 `yaml:"amount" json:"amount"`
	Unit   Unit    `yaml:"unit" json:"unit"`
}

// CanonicalGB returns the capacity normalized to gigabytes.
// All tier comparisons happen on this canonical scale.
func (c Capacity) CanonicalGB() float64 {
	if c.Unit == UnitTB {
		return c.Amount * gbPerTB
	}
	return c.Amount
}

// IsZero reports whether the capacity carries no value.
func (c Capacity) IsZero() bool {
	return c.Amount == 0 && c.Unit == ""
}

// String renders the capacity in its original unit, e.g. "300 GB" or "1.5 TB".
func (c Capacity) String() string {
	return fmt.Sprintf("%s %s", strconv.FormatFloat(c.Amount, 'f', -1, 64), c.Unit)
}

// ParseUnit parses a storage unit token case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GB":
		return UnitGB, nil
	case "TB":
		return UnitTB, nil
	default:
		return "", fmt.Errorf("unknown storage unit: %q", s)
	}
}

// ParseCapacity parses a "<number> <unit>" token such as "300 GB", "2TB" or
// "1.5 tb". The unit suffix may be attached or space-separated.
func ParseCapacity(s string) (Capacity, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Capacity{}, fmt.Errorf("empty capacity")
	}

	// Split off the trailing alphabetic unit token.
	split := len(trimmed)
	for split > 0 {
		ch := trimmed[split-1]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
			split--
			continue
		}
		break
	}
	numPart := strings.TrimSpace(trimmed[:split])
	unitPart := trimmed[split:]

	if numPart == "" {
		return Capacity{}, fmt.Errorf("capacity %q has no numeric part", s)
	}
	if unitPart == "" {
		return Capacity{}, fmt.Errorf("capacity %q has no unit", s)
	}

	amount, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return Capacity{}, fmt.Errorf("parsing capacity amount %q: %w", numPart, err)
	}
	if amount < 0 {
		return Capacity{}, fmt.Errorf("capacity cannot be negative: %q", s)
	}

	unit, err := ParseUnit(unitPart)
	if err != nil {
		return Capacity{}, err
	}

	return Capacity{Amount: amount, Unit: unit}, nil
}

// UnmarshalYAML lets tier definitions write capacities as plain strings.
func (c *Capacity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseCapacity(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
