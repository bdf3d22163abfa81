// Package catalog defines the service tier table and the capacity
// normalization primitives used for upgrade-only comparisons.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tiers.yml
var tiersYAML []byte

// CustomTierID identifies the pseudo-tier backed by a user-supplied
// capacity instead of a fixed catalog entry.
const CustomTierID = "custom"

// MinCustomGB is the absolute floor for custom allocations, in canonical GB.
const MinCustomGB = 50

// Tier is one service plan from the catalog. Tiers are totally ordered by
// Rank; comparisons for upgrade gating use the canonical capacity instead.
type Tier struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Rank         int      `yaml:"rank"`
	Capacity     Capacity `yaml:"capacity"`
	Channels     []string `yaml:"channels"`
	ResponseTime string   `yaml:"response_time"`
	Availability string   `yaml:"availability"`
	Extras       string   `yaml:"extras"`
}

// Catalog holds the tier table loaded from the embedded definition.
type Catalog struct {
	tiers []Tier
	byID  map[string]Tier
}

// Load parses the embedded tier table. The result is ordered by rank.
func Load() (*Catalog, error) {
	return parse(tiersYAML)
}

// MustLoad is Load for callers where a broken embedded table is a
// programming error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func parse(data []byte) (*Catalog, error) {
	var doc struct {
		Tiers []Tier `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing tier table: %w", err)
	}
	if len(doc.Tiers) == 0 {
		return nil, fmt.Errorf("tier table is empty")
	}

	sort.Slice(doc.Tiers, func(i, j int) bool {
		return doc.Tiers[i].Rank < doc.Tiers[j].Rank
	})

	byID := make(map[string]Tier, len(doc.Tiers))
	for _, t := range doc.Tiers {
		if t.ID == "" {
			return nil, fmt.Errorf("tier %q has no id", t.Title)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tier id %q", t.ID)
		}
		byID[t.ID] = t
	}

	return &Catalog{tiers: doc.Tiers, byID: byID}, nil
}

// All returns the tiers ordered by rank.
func (c *Catalog) All() []Tier {
	out := make([]Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// ByID looks up a tier by its identifier.
func (c *Catalog) ByID(id string) (Tier, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// ByTitle looks up a tier by its display title, case-insensitively.
// Backends are inconsistent about whether they return ids or titles.
func (c *Catalog) ByTitle(title string) (Tier, bool) {
	needle := strings.ToLower(strings.TrimSpace(title))
	for _, t := range c.tiers {
		if strings.ToLower(t.Title) == needle || t.ID == needle {
			return t, true
		}
	}
	return Tier{}, false
}

// Resolve maps a backend tier name to its canonical capacity. Unknown names
// fall back to parsing the name itself as a capacity token, which covers
// backends that report custom allocations as "750 GB".
func (c *Catalog) Resolve(name string) (Capacity, error) {
	if t, ok := c.ByTitle(name); ok {
		return t.Capacity, nil
	}
	cap, err := ParseCapacity(name)
	if err != nil {
		return Capacity{}, fmt.Errorf("unknown tier %q", name)
	}
	return cap, nil
}
