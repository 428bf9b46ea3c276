package model

// Category identifies one of the fixed dashboard blocks. Unknown values
// coming from the model are kept verbatim.
type Category string

const (
	CategoryUrgentAttention   Category = "urgent_attention"
	CategoryActionRequired    Category = "action_required"
	CategoryDocumentsToReview Category = "documents_to_review"
	CategoryInformational     Category = "informational"
)

// PanelOrder is the order panels are shown on the board.
var PanelOrder = []Category{
	CategoryUrgentAttention,
	CategoryActionRequired,
	CategoryDocumentsToReview,
	CategoryInformational,
}

// IsKnown reports whether c is one of the four fixed categories.
func (c Category) IsKnown() bool {
	for _, known := range PanelOrder {
		if c == known {
			return true
		}
	}
	return false
}

// PanelMeta holds display labels for a board panel or triage strip
type PanelMeta struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Meta returns the panel labels for the category.
func (c Category) Meta() PanelMeta {
	switch c {
	case CategoryUrgentAttention:
		return PanelMeta{Title: "Urgent attention", Subtitle: "Time-sensitive items with real downside"}
	case CategoryActionRequired:
		return PanelMeta{Title: "Action required", Subtitle: "Replies, decisions, follow-ups"}
	case CategoryDocumentsToReview:
		return PanelMeta{Title: "Documents to review", Subtitle: "Files to read, sign, or process"}
	case CategoryInformational:
		return PanelMeta{Title: "Informational", Subtitle: "No action needed; keep for awareness"}
	default:
		return PanelMeta{Title: string(c)}
	}
}

// CategoryBlock pairs a category with its classified items
type CategoryBlock struct {
	Category Category    `json:"category"`
	Items    []EmailItem `json:"items"`
}

// DashboardModel is the precomputed classification document
type DashboardModel struct {
	Blocks []CategoryBlock `json:"blocks"`
}
