package triage

import (
	"math"
	"sort"

	"inbox-triage/internal/model"
)

// SortItems orders items of one block by the rule of its category. The input
// slice is not modified and the sort is stable.
//
//	urgent_attention     confidence desc, then received desc
//	documents_to_review  attachments desc, then received desc
//	everything else      received desc
func SortItems(category model.Category, items []model.EmailItem) []model.EmailItem {
	out := make([]model.EmailItem, len(items))
	copy(out, items)

	received := make([]int64, len(out))
	for i := range out {
		received[i] = out[i].ReceivedAtMs()
	}

	// Sort an index permutation so the received cache stays aligned.
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	less := func(a, b int) bool {
		return received[a] > received[b]
	}
	switch category {
	case model.CategoryUrgentAttention:
		less = func(a, b int) bool {
			ca, cb := sortableConfidence(out[a]), sortableConfidence(out[b])
			if ca != cb {
				return ca > cb
			}
			return received[a] > received[b]
		}
	case model.CategoryDocumentsToReview:
		less = func(a, b int) bool {
			na, nb := sortableAttachments(out[a]), sortableAttachments(out[b])
			if na != nb {
				return na > nb
			}
			return received[a] > received[b]
		}
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return less(idx[i], idx[j])
	})

	sorted := make([]model.EmailItem, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// SortBlocks returns a copy of the blocks with each item list sorted.
func SortBlocks(blocks []model.CategoryBlock) []model.CategoryBlock {
	out := make([]model.CategoryBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, model.CategoryBlock{
			Category: b.Category,
			Items:    SortItems(b.Category, b.Items),
		})
	}
	return out
}

func sortableConfidence(item model.EmailItem) float64 {
	if math.IsNaN(item.Confidence) {
		return 0
	}
	return item.Confidence
}

func sortableAttachments(item model.EmailItem) int {
	if item.AttachmentsCount < 0 {
		return 0
	}
	return item.AttachmentsCount
}
