package triage

import (
	"time"

	"inbox-triage/internal/model"
)

const laterTodayOffset = 3 * time.Hour

// PresetToUntil converts a snooze preset into the instant the snooze ends.
// Calendar presets are computed in the location of now. Unknown presets
// behave like later_today.
func PresetToUntil(preset model.SnoozePreset, now time.Time) time.Time {
	switch preset {
	case model.SnoozeTomorrow9:
		return atNine(now, 1)
	case model.SnoozeNextMon9:
		days := (8 - int(now.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		return atNine(now, days)
	default:
		return now.Add(laterTodayOffset)
	}
}

// atNine returns 09:00:00.000 on the day that is days after now.
func atNine(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+days, 9, 0, 0, 0, now.Location())
}

// IsSnoozeActive reports whether the entry still hides its email at now.
// A missing or unparsable until is never active. An until without an offset
// is read in the location of now.
func IsSnoozeActive(entry model.SnoozeEntry, now time.Time) bool {
	until, ok := model.ParseInstantIn(entry.Until, now.Location())
	if !ok {
		return false
	}
	return until.After(now)
}

// CleanupExpiredSnoozes returns a copy of state without the snoozes that are
// no longer active at now. Done and ignored are left untouched.
func CleanupExpiredSnoozes(state model.TriageState, now time.Time) model.TriageState {
	next := state.Clone()
	for _, id := range state.Snoozed.Keys() {
		entry, _ := state.Snoozed.Get(id)
		if !IsSnoozeActive(entry, now) {
			next.Snoozed.Delete(id)
		}
	}
	return next
}

// ExpiredSnoozes lists the ids whose snooze has ended at now, in stored order.
func ExpiredSnoozes(state model.TriageState, now time.Time) []string {
	var expired []string
	for _, id := range state.Snoozed.Keys() {
		entry, _ := state.Snoozed.Get(id)
		if !IsSnoozeActive(entry, now) {
			expired = append(expired, id)
		}
	}
	return expired
}
