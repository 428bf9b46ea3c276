package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SnoozePreset names a snooze duration chosen by the user. Values outside the
// known presets are preserved as written.
type SnoozePreset string

const (
	SnoozeLaterToday SnoozePreset = "later_today"
	SnoozeTomorrow9  SnoozePreset = "tomorrow_9"
	SnoozeNextMon9   SnoozePreset = "next_mon_9"
)

func (p SnoozePreset) IsKnown() bool {
	switch p {
	case SnoozeLaterToday, SnoozeTomorrow9, SnoozeNextMon9:
		return true
	}
	return false
}

type SnoozeEntry struct {
	Until  string       `json:"until"`
	Preset SnoozePreset `json:"preset"`
}

// SnoozeMap maps email ids to snooze entries and keeps insertion order, so
// the snoozed strip lists items the way they were snoozed.
type SnoozeMap struct {
	keys    []string
	entries map[string]SnoozeEntry
}

func NewSnoozeMap() SnoozeMap {
	return SnoozeMap{
		keys:    []string{},
		entries: make(map[string]SnoozeEntry),
	}
}

func (m SnoozeMap) Len() int {
	return len(m.keys)
}

func (m SnoozeMap) Get(emailID string) (SnoozeEntry, bool) {
	entry, ok := m.entries[emailID]
	return entry, ok
}

// Set inserts or replaces an entry. A replaced entry keeps its position.
func (m *SnoozeMap) Set(emailID string, entry SnoozeEntry) {
	if m.entries == nil {
		m.entries = make(map[string]SnoozeEntry)
	}
	if _, exists := m.entries[emailID]; !exists {
		m.keys = append(m.keys, emailID)
	}
	m.entries[emailID] = entry
}

func (m *SnoozeMap) Delete(emailID string) {
	if _, exists := m.entries[emailID]; !exists {
		return
	}
	delete(m.entries, emailID)
	for i, k := range m.keys {
		if k == emailID {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the email ids in insertion order.
func (m SnoozeMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m SnoozeMap) Clone() SnoozeMap {
	out := NewSnoozeMap()
	for _, k := range m.keys {
		out.Set(k, m.entries[k])
	}
	return out
}

func (m SnoozeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object in document order. It fails only when the
// input is not an object; individual entries are decoded leniently: a value
// that is not an object is dropped, a non-string until or preset becomes "".
// Empty ids are dropped.
func (m *SnoozeMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("snoozed: expected object, got %v", tok)
	}

	out := NewSnoozeMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}

		entry, ok := decodeSnoozeEntry(value)
		if !ok || key == "" {
			continue
		}
		out.Set(key, entry)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

func decodeSnoozeEntry(raw json.RawMessage) (SnoozeEntry, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return SnoozeEntry{}, false
	}
	return SnoozeEntry{
		Until:  lenientString(fields["until"]),
		Preset: SnoozePreset(lenientString(fields["preset"])),
	}, true
}

// TriageState is the persisted record of what the user did with each email
type TriageState struct {
	Done    []string  `json:"done"`
	Ignored []string  `json:"ignored"`
	Snoozed SnoozeMap `json:"snoozed"`
}

// EmptyTriageState returns the canonical empty state
// {"done":[],"ignored":[],"snoozed":{}}.
func EmptyTriageState() TriageState {
	return TriageState{
		Done:    []string{},
		Ignored: []string{},
		Snoozed: NewSnoozeMap(),
	}
}

func (s TriageState) Clone() TriageState {
	return TriageState{
		Done:    append([]string{}, s.Done...),
		Ignored: append([]string{}, s.Ignored...),
		Snoozed: s.Snoozed.Clone(),
	}
}

func (s TriageState) IsDone(emailID string) bool {
	return containsID(s.Done, emailID)
}

func (s TriageState) IsIgnored(emailID string) bool {
	return containsID(s.Ignored, emailID)
}

func containsID(ids []string, emailID string) bool {
	for _, id := range ids {
		if id == emailID {
			return true
		}
	}
	return false
}
