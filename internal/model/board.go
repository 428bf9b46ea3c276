package model

// TriagedItem is an item shown in one of the side strips, tagged with the
// block it came from.
type TriagedItem struct {
	EmailItem
	SourceCategory Category     `json:"_source_category"`
	SnoozeUntil    string       `json:"_snooze_until,omitempty"`
	SnoozePreset   SnoozePreset `json:"_snooze_preset,omitempty"`
}

// Projection splits the sorted blocks into the main board and the three side
// lists for a given instant.
type Projection struct {
	MainBlocks   []CategoryBlock `json:"main_blocks"`
	SnoozedItems []TriagedItem   `json:"snoozed_items"`
	IgnoredItems []TriagedItem   `json:"ignored_items"`
	DoneItems    []TriagedItem   `json:"done_items"`
}

// BoardItem is a main-board item annotated with the "new" badge.
type BoardItem struct {
	EmailItem
	ShowNew bool `json:"_show_new"`
}

type Panel struct {
	Category Category    `json:"category"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Count    int         `json:"count"`
	Items    []BoardItem `json:"items"`
}

// TriageStrip is one of the snoozed, ignored or done strips.
type TriageStrip struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Count    int           `json:"count"`
	Items    []TriagedItem `json:"items"`
}

const (
	StripSnoozed = "snoozed"
	StripIgnored = "ignored"
	StripDone    = "done"
)

// StripMeta returns the labels of a triage strip.
func StripMeta(id string) PanelMeta {
	switch id {
	case StripSnoozed:
		return PanelMeta{Title: "Snoozed", Subtitle: "Temporarily hidden until later"}
	case StripIgnored:
		return PanelMeta{Title: "Ignored", Subtitle: "Hidden from main inbox"}
	case StripDone:
		return PanelMeta{Title: "Done", Subtitle: "Marked as completed"}
	default:
		return PanelMeta{Title: id}
	}
}

// Board is the full view model handed to the rendering layer
type Board struct {
	Panels           []Panel          `json:"panels"`
	Strips           []TriageStrip    `json:"strips"`
	Counts           map[Category]int `json:"counts"`
	Total            int              `json:"total"`
	LatestReceivedAt int64            `json:"latest_received_at"`
	LastUpdatedAt    string           `json:"last_updated_at"`
}

// ViewedSet holds the email ids opened during the current session.
type ViewedSet map[string]bool

func (v ViewedSet) Has(emailID string) bool {
	return v[emailID]
}
