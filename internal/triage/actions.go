package triage

import (
	"time"

	"inbox-triage/internal/model"
)

// Action is a triage operation the user can trigger from a card.
type Action string

const (
	ActionDone    Action = "done"
	ActionIgnore  Action = "ignore"
	ActionRestore Action = "restore"
	ActionSnooze  Action = "snooze"
)

// MarkDone adds emailID to the done set.
func MarkDone(state model.TriageState, emailID string) model.TriageState {
	next := state.Clone()
	if !next.IsDone(emailID) {
		next.Done = append(next.Done, emailID)
	}
	return next
}

// MarkIgnored adds emailID to the ignored set.
func MarkIgnored(state model.TriageState, emailID string) model.TriageState {
	next := state.Clone()
	if !next.IsIgnored(emailID) {
		next.Ignored = append(next.Ignored, emailID)
	}
	return next
}

// Snooze inserts or updates the snooze entry of emailID.
func Snooze(state model.TriageState, emailID string, preset model.SnoozePreset, now time.Time) model.TriageState {
	next := state.Clone()
	next.Snoozed.Set(emailID, model.SnoozeEntry{
		Until:  model.FormatInstant(PresetToUntil(preset, now)),
		Preset: preset,
	})
	return next
}

// Restore removes emailID from done, ignored and snoozed.
func Restore(state model.TriageState, emailID string) model.TriageState {
	next := state.Clone()
	next.Done = removeID(next.Done, emailID)
	next.Ignored = removeID(next.Ignored, emailID)
	next.Snoozed.Delete(emailID)
	return next
}

func removeID(ids []string, emailID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != emailID {
			out = append(out, id)
		}
	}
	return out
}
