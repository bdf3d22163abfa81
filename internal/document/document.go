// Package document synthesizes the final submission from the completed
// form: a nested block document for the ticket body and a flat payload for
// the backend API. Both come out of one traversal so they can never
// disagree about which branch's data is included.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/skyvaultcloud/skyvault/internal/request"
)

// Block kinds in the nested ticket body.
const (
	BlockSection   = "section"
	BlockParagraph = "paragraph"
)

// Block is one node of the ticket body.
type Block struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Document is the pruned block tree sent to the ticketing integration.
// It is built once at submission time and never mutated afterwards.
type Document struct {
	Type    string  `json:"type"`
	Content []Block `json:"content"`
}

// Reporter identifies who files the request.
type Reporter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payload is the flat submission object posted to the backend.
type Payload struct {
	RequestType     string              `json:"requestType"`
	Reporter        Reporter            `json:"reporter"`
	Accounts        []string            `json:"accounts,omitempty"`
	Buckets         []string            `json:"buckets,omitempty"`
	Tier            string              `json:"tier,omitempty"`
	TierChange      *request.TierChange `json:"tierChange,omitempty"`
	ResourceID      string              `json:"resourceId,omitempty"`
	Changes         []string            `json:"changes,omitempty"`
	ChangeNotes     string              `json:"changeNotes,omitempty"`
	Grants          []grantPayload      `json:"accessGrants,omitempty"`
	FileSharing     *bool               `json:"fileSharing,omitempty"`
	Channels        []string            `json:"channels,omitempty"`
	VolumePlan      string              `json:"volumePlan,omitempty"`
	LifecycleDays   string              `json:"lifecycleDays,omitempty"`
	LifecycleMonths string              `json:"lifecycleMonths,omitempty"`
	Acknowledged    []string            `json:"acknowledged,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	SubmittedAt     string              `json:"submittedAt"`
	Document        Document            `json:"document"`

	// BodyOverride carries a manually edited ticket body. It replaces the
	// rendered document text on the ticket, never the structured fields.
	BodyOverride string `json:"bodyOverride,omitempty"`
}

type grantPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Access   string `json:"accessLevel"`
}

// Synthesizer turns a completed form into the two submission outputs.
// Prefix is the fixed naming convention prepended to every alias.
type Synthesizer struct {
	Prefix string
}

// New creates a synthesizer with the given naming prefix.
func New(prefix string) *Synthesizer {
	if prefix == "" {
		prefix = "skyv"
	}
	return &Synthesizer{Prefix: prefix}
}

// section is the intermediate form both outputs are rendered from.
type section struct {
	title string
	lines []string
}

// Synthesize consumes the form read-only and produces the document and the
// payload. Branch inclusion is decided solely by the resolved request type,
// never by which fields happen to be non-empty.
func (s *Synthesizer) Synthesize(f *request.Form, who Reporter, now time.Time) (Document, Payload) {
	payload := Payload{
		RequestType: f.RequestType.String(),
		Reporter:    who,
		SubmittedAt: now.UTC().Format(time.RFC3339),
	}

	var sections []section
	add := func(sec section) {
		if len(sec.lines) > 0 {
			sections = append(sections, sec)
		}
	}

	add(s.reporterSection(who))

	switch f.RequestType {
	case request.BranchAWS:
		names := s.ExpandAliases("aws", f.AccountAliases, f.AccountCount, f.AccountOverflow)
		payload.Accounts = names
		add(accountSection("AWS Account Summary", "account", f.AccountCount, names))
	case request.BranchStorage:
		names := s.ExpandAliases("bkt", f.BucketAliases, f.BucketCount, f.BucketOverflow)
		payload.Buckets = names
		sec := accountSection("Storage Account Summary", "bucket", f.BucketCount, names)
		sec.lines = append(sec.lines, tierLines(f, &payload)...)
		add(sec)
	case request.BranchChange:
		payload.ResourceID = f.ResourceID
		payload.Changes = append([]string(nil), f.ChangeKinds...)
		if !request.Blank(f.ChangeNotes) {
			payload.ChangeNotes = f.ChangeNotes
		}
		add(changeSection(f))
	}

	add(grantsSection(f, &payload))
	add(deliverySection(f, &payload))
	add(acksSection(f, &payload))
	add(notesSection(f, &payload))
	add(section{title: "Submitted", lines: []string{payload.SubmittedAt}})

	doc := Document{Type: "doc"}
	for _, sec := range sections {
		doc.Content = append(doc.Content, Block{Type: BlockSection, Content: sec.title})
		for _, line := range sec.lines {
			doc.Content = append(doc.Content, Block{Type: BlockParagraph, Content: line})
		}
	}
	payload.Document = doc

	return doc, payload
}

// Markdown renders the document as markdown for preview and for the human
// readable ticket body.
func Markdown(d Document) string {
	var b strings.Builder
	for _, block := range d.Content {
		switch block.Type {
		case BlockSection:
			b.WriteString("## ")
			b.WriteString(block.Content)
			b.WriteString("\n\n")
		default:
			b.WriteString(block.Content)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ExpandAliases turns the alias slots plus the overflow free text into one
// resource name per non-empty alias, under the fixed naming convention
// "<prefix>-<kind>-<slug>". Overflow lines become additional entries.
func (s *Synthesizer) ExpandAliases(kind string, aliases [request.MaxAliasSlots]string, count int, overflow string) []string {
	var names []string
	slots := count
	if slots > request.MaxAliasSlots {
		slots = request.MaxAliasSlots
	}
	for i := 0; i < slots; i++ {
		if request.Blank(aliases[i]) {
			continue
		}
		names = append(names, s.resourceName(kind, aliases[i]))
	}
	for _, line := range strings.Split(overflow, "\n") {
		if request.Blank(line) {
			continue
		}
		names = append(names, s.resourceName(kind, line))
	}
	return names
}

func (s *Synthesizer) resourceName(kind, alias string) string {
	return fmt.Sprintf("%s-%s-%s", s.Prefix, kind, slug.Make(alias))
}

func (s *Synthesizer) reporterSection(who Reporter) section {
	var lines []string
	if !request.Blank(who.Name) {
		lines = append(lines, "Name: "+who.Name)
	}
	if !request.Blank(who.Email) {
		lines = append(lines, "Email: "+who.Email)
	}
	return section{title: "Reporter", lines: lines}
}

func accountSection(title, noun string, count int, names []string) section {
	var lines []string
	if count > 0 {
		lines = append(lines, fmt.Sprintf("Requested %ss: %d", noun, count))
	}
	lines = append(lines, names...)
	return section{title: title, lines: lines}
}

func tierLines(f *request.Form, payload *Payload) []string {
	var lines []string
	if f.TierID != "" {
		tierLabel := f.TierID
		if f.CustomCapacity != nil {
			tierLabel = "custom (" + f.CustomCapacity.String() + ")"
		}
		payload.Tier = tierLabel
		lines = append(lines, "Service tier: "+tierLabel)
	}
	if f.TierChange != nil {
		payload.TierChange = f.TierChange
		lines = append(lines,
			fmt.Sprintf("Tier change: %s → %s", f.TierChange.PreviousTier, f.TierChange.NewTier),
			fmt.Sprintf("Storage: %s → %s (%s)", f.TierChange.PreviousStorage, f.TierChange.NewStorage, f.TierChange.Status),
		)
	}
	return lines
}

func changeSection(f *request.Form) section {
	var lines []string
	if !request.Blank(f.ResourceID) {
		lines = append(lines, "Resource: "+f.ResourceID)
	}
	for _, kind := range f.ChangeKinds {
		lines = append(lines, "Requested change: "+kind)
	}
	if !request.Blank(f.ChangeNotes) {
		lines = append(lines, "Notes: "+f.ChangeNotes)
	}
	return section{title: "Change Request", lines: lines}
}

func grantsSection(f *request.Form, payload *Payload) section {
	var lines []string
	for _, g := range f.Grants {
		if request.Blank(g.FullName) && request.Blank(g.Email) {
			continue
		}
		payload.Grants = append(payload.Grants, grantPayload{
			FullName: g.FullName,
			Email:    g.Email,
			Access:   g.Level.String(),
		})
		lines = append(lines, fmt.Sprintf("%s <%s>: %s", g.FullName, g.Email, g.Level))
	}
	return section{title: "Access Grants", lines: lines}
}

func deliverySection(f *request.Form, payload *Payload) section {
	var lines []string
	if f.FileSharing != nil {
		payload.FileSharing = f.FileSharing
		if *f.FileSharing {
			lines = append(lines, "File sharing: yes")
			for _, id := range f.Channels {
				payload.Channels = append(payload.Channels, id)
				lines = append(lines, "Channel: "+channelLabel(id))
			}
			if f.VolumePlan != "" {
				plan := f.VolumePlan
				if plan == request.VolumePlanCustom && !request.Blank(f.VolumeCustomGB) {
					plan = strings.TrimSpace(f.VolumeCustomGB) + " GB / month (custom)"
				}
				payload.VolumePlan = plan
				lines = append(lines, "Volume plan: "+plan)
			}
		} else {
			lines = append(lines, "File sharing: no")
		}
	}
	if f.LifecycleEnabled {
		if !request.Blank(f.RetentionDays) {
			payload.LifecycleDays = f.RetentionDays
			lines = append(lines, "Retention: "+f.RetentionDays+" days")
		}
		if !request.Blank(f.RetentionMonths) {
			payload.LifecycleMonths = f.RetentionMonths
			lines = append(lines, "Retention: "+f.RetentionMonths+" months")
		}
	}
	return section{title: "Delivery & Lifecycle", lines: lines}
}

func acksSection(f *request.Form, payload *Payload) section {
	var lines []string
	for _, ack := range request.RequiredAcks {
		if f.Acks[ack.ID] {
			payload.Acknowledged = append(payload.Acknowledged, ack.ID)
			lines = append(lines, "Confirmed: "+ack.Label)
		}
	}
	return section{title: "Acknowledgements", lines: lines}
}

func notesSection(f *request.Form, payload *Payload) section {
	var lines []string
	if !request.Blank(f.ExtraNotes) {
		payload.Notes = f.ExtraNotes
		for _, line := range strings.Split(f.ExtraNotes, "\n") {
			if !request.Blank(line) {
				lines = append(lines, line)
			}
		}
	}
	return section{title: "Additional Notes", lines: lines}
}

func channelLabel(id string) string {
	for _, ch := range request.DeliveryChannels {
		if ch.ID == id {
			return ch.Label
		}
	}
	return id
}
