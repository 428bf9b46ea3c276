package triage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-triage/internal/model"
	"inbox-triage/internal/triage"
)

// 2024-01-01 is a Monday.
var monday10 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func TestPresetLaterToday(t *testing.T) {
	until := triage.PresetToUntil(model.SnoozeLaterToday, monday10)

	assert.True(t, until.Equal(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-01T13:00:00.000Z", model.FormatInstant(until))
}

func TestPresetUnknownFallsBackToLaterToday(t *testing.T) {
	until := triage.PresetToUntil("next_year", monday10)

	assert.True(t, until.Equal(monday10.Add(3*time.Hour)))
}

func TestPresetTomorrowNineLocal(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2024, 3, 31, 23, 30, 0, 0, zone)

	until := triage.PresetToUntil(model.SnoozeTomorrow9, now)

	assert.Equal(t, time.Date(2024, 4, 1, 9, 0, 0, 0, zone), until)
}

func TestPresetNextMondayFromMondayRollsAWeek(t *testing.T) {
	until := triage.PresetToUntil(model.SnoozeNextMon9, monday10)

	assert.Equal(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), until)
	assert.Equal(t, time.Monday, until.Weekday())
}

func TestPresetNextMondayFromOtherDays(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"sunday", time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2023, 12, 30, 8, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{"tuesday", time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)},
		{"monday before nine", time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, triage.PresetToUntil(model.SnoozeNextMon9, tc.now))
		})
	}
}

func TestIsSnoozeActive(t *testing.T) {
	assert.True(t, triage.IsSnoozeActive(model.SnoozeEntry{Until: "2024-01-01T10:00:01.000Z"}, monday10))
	assert.False(t, triage.IsSnoozeActive(model.SnoozeEntry{Until: "2024-01-01T10:00:00.000Z"}, monday10))
	assert.False(t, triage.IsSnoozeActive(model.SnoozeEntry{Until: "2023-12-31T10:00:00Z"}, monday10))
	assert.False(t, triage.IsSnoozeActive(model.SnoozeEntry{Until: ""}, monday10))
	assert.False(t, triage.IsSnoozeActive(model.SnoozeEntry{Until: "tomorrow"}, monday10))
}

func TestIsSnoozeActiveReadsZonelessUntilInNowLocation(t *testing.T) {
	// 10:00 at UTC+2 is 08:00 UTC
	plusTwo := time.FixedZone("EET", 2*3600)
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, plusTwo)
	entry := model.SnoozeEntry{Until: "2024-01-01T10:00:00"}

	assert.True(t, triage.IsSnoozeActive(entry, now))
	assert.False(t, triage.IsSnoozeActive(entry, now.Add(time.Hour)))
	// read in UTC the same deadline is still ahead of 08:30 UTC
	assert.True(t, triage.IsSnoozeActive(entry, now.Add(time.Hour).In(time.UTC)))
}

func TestCleanupExpiredSnoozes(t *testing.T) {
	state := model.EmptyTriageState()
	state.Done = []string{"d"}
	state.Ignored = []string{"i"}
	state.Snoozed.Set("past", model.SnoozeEntry{Until: "2024-01-01T09:00:00.000Z", Preset: model.SnoozeLaterToday})
	state.Snoozed.Set("future", model.SnoozeEntry{Until: "2024-01-02T09:00:00.000Z", Preset: model.SnoozeTomorrow9})
	state.Snoozed.Set("broken", model.SnoozeEntry{Until: "??"})

	clean := triage.CleanupExpiredSnoozes(state, monday10)

	assert.Equal(t, []string{"future"}, clean.Snoozed.Keys())
	entry, ok := clean.Snoozed.Get("future")
	require.True(t, ok)
	assert.Equal(t, model.SnoozeTomorrow9, entry.Preset)
	assert.Equal(t, []string{"d"}, clean.Done)
	assert.Equal(t, []string{"i"}, clean.Ignored)

	// The input is left untouched.
	assert.Equal(t, 3, state.Snoozed.Len())
	assert.Equal(t, []string{"past", "broken"}, triage.ExpiredSnoozes(state, monday10))
}
