package triage

import (
	"inbox-triage/internal/model"
)

// DefaultNewWindowHours is the trailing window used to flag new emails.
const DefaultNewWindowHours = 6

// IsNew reports whether receivedAt falls within windowHours of latestMs, the
// most recent receive time in the model. Invalid inputs are never new.
func IsNew(receivedAt string, latestMs int64, windowHours float64) bool {
	t, ok := model.ParseInstant(receivedAt)
	if !ok || latestMs <= 0 {
		return false
	}
	windowMs := int64(windowHours * 3600000)
	return t.UnixMilli() >= latestMs-windowMs
}

// LatestReceivedAt returns the newest valid received_at across all blocks in
// Unix milliseconds, or 0 when there is none.
func LatestReceivedAt(blocks []model.CategoryBlock) int64 {
	var latest int64
	for _, b := range blocks {
		for _, it := range b.Items {
			if ms := it.ReceivedAtMs(); ms > latest {
				latest = ms
			}
		}
	}
	return latest
}
