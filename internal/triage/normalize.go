package triage

import (
	"encoding/json"

	"inbox-triage/internal/model"
)

// Normalize decodes a persisted triage blob into a well-formed state. It never
// fails: anything that cannot be read maps to its empty default.
//
//	unparsable, empty, null or non-object input  -> empty state
//	done / ignored not an array                  -> []
//	list element not a non-empty string          -> dropped
//	duplicate id within a list                   -> first occurrence kept
//	snoozed not an object                        -> {}
//	snooze value not an object, or empty id      -> entry dropped
//	until / preset not a string                  -> ""
func Normalize(raw []byte) model.TriageState {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.EmptyTriageState()
	}

	state := model.EmptyTriageState()
	state.Done = normalizeIDs(fields["done"])
	state.Ignored = normalizeIDs(fields["ignored"])

	if snoozed, ok := fields["snoozed"]; ok {
		var m model.SnoozeMap
		if err := json.Unmarshal(snoozed, &m); err == nil {
			state.Snoozed = m
		}
	}
	return state
}

// NormalizeState brings an in-memory state to the same shape Normalize
// produces, so what Save returns equals what a later Load reads.
func NormalizeState(state model.TriageState) model.TriageState {
	out := model.EmptyTriageState()
	out.Done = dedupeIDs(state.Done)
	out.Ignored = dedupeIDs(state.Ignored)
	for _, id := range state.Snoozed.Keys() {
		if id == "" {
			continue
		}
		entry, _ := state.Snoozed.Get(id)
		out.Snoozed.Set(id, entry)
	}
	return out
}

func normalizeIDs(raw json.RawMessage) []string {
	var values []interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &values) != nil {
		return []string{}
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return dedupeIDs(ids)
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
