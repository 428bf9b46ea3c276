package triage

import (
	"time"

	"inbox-triage/internal/model"
)

type indexedItem struct {
	item     model.EmailItem
	category model.Category
}

// Project splits sorted blocks into the main board and the snoozed, ignored
// and done lists for the instant now.
//
// Expired snoozes are dropped before filtering; persisting that cleanup is the
// caller's job. An id is hidden from the main board when it is done, ignored
// or actively snoozed, checked in that order. Ids that no longer exist in the
// blocks are silently left out of the side lists.
func Project(blocks []model.CategoryBlock, state model.TriageState, now time.Time) model.Projection {
	clean := CleanupExpiredSnoozes(state, now)

	// Later occurrences of a duplicated id win.
	index := make(map[string]indexedItem)
	for _, b := range blocks {
		for _, it := range b.Items {
			index[it.EmailID] = indexedItem{item: it, category: b.Category}
		}
	}

	done := toSet(clean.Done)
	ignored := toSet(clean.Ignored)

	hidden := func(id string) bool {
		if done[id] {
			return true
		}
		if ignored[id] {
			return true
		}
		entry, ok := clean.Snoozed.Get(id)
		return ok && IsSnoozeActive(entry, now)
	}

	projection := model.Projection{
		MainBlocks:   make([]model.CategoryBlock, 0, len(blocks)),
		SnoozedItems: []model.TriagedItem{},
		IgnoredItems: []model.TriagedItem{},
		DoneItems:    []model.TriagedItem{},
	}

	for _, b := range blocks {
		items := make([]model.EmailItem, 0, len(b.Items))
		for _, it := range b.Items {
			if hidden(it.EmailID) {
				continue
			}
			items = append(items, it)
		}
		projection.MainBlocks = append(projection.MainBlocks, model.CategoryBlock{
			Category: b.Category,
			Items:    items,
		})
	}

	for _, id := range clean.Snoozed.Keys() {
		found, ok := index[id]
		if !ok {
			continue
		}
		entry, _ := clean.Snoozed.Get(id)
		projection.SnoozedItems = append(projection.SnoozedItems, model.TriagedItem{
			EmailItem:      found.item,
			SourceCategory: found.category,
			SnoozeUntil:    entry.Until,
			SnoozePreset:   entry.Preset,
		})
	}

	projection.IgnoredItems = lookupAll(index, clean.Ignored)
	projection.DoneItems = lookupAll(index, clean.Done)

	return projection
}

func lookupAll(index map[string]indexedItem, ids []string) []model.TriagedItem {
	out := []model.TriagedItem{}
	for _, id := range ids {
		found, ok := index[id]
		if !ok {
			continue
		}
		out = append(out, model.TriagedItem{
			EmailItem:      found.item,
			SourceCategory: found.category,
		})
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// FindItem looks for emailID inside the block of the given category.
func FindItem(blocks []model.CategoryBlock, category model.Category, emailID string) (model.EmailItem, bool) {
	for _, b := range blocks {
		if b.Category != category {
			continue
		}
		for _, it := range b.Items {
			if it.EmailID == emailID {
				return it, true
			}
		}
	}
	return model.EmailItem{}, false
}

// FindAny looks for emailID across all blocks, returning the first match and
// its category.
func FindAny(blocks []model.CategoryBlock, emailID string) (model.EmailItem, model.Category, bool) {
	for _, b := range blocks {
		for _, it := range b.Items {
			if it.EmailID == emailID {
				return it, b.Category, true
			}
		}
	}
	return model.EmailItem{}, "", false
}

// BlockFor returns the first block of the category, matching how panels are
// looked up.
func BlockFor(blocks []model.CategoryBlock, category model.Category) (model.CategoryBlock, bool) {
	for _, b := range blocks {
		if b.Category == category {
			return b, true
		}
	}
	return model.CategoryBlock{}, false
}

// CountByCategory counts items per category using the first block of each,
// the same block a panel shows.
func CountByCategory(blocks []model.CategoryBlock) map[model.Category]int {
	counts := make(map[model.Category]int, len(model.PanelOrder))
	for _, c := range model.PanelOrder {
		counts[c] = 0
	}
	seen := make(map[model.Category]bool)
	for _, b := range blocks {
		if seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		counts[b.Category] = len(b.Items)
	}
	return counts
}

// SumCounts totals the counts of the four known categories.
func SumCounts(counts map[model.Category]int) int {
	total := 0
	for _, c := range model.PanelOrder {
		total += counts[c]
	}
	return total
}
