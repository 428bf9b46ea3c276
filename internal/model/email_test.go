package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailItemLenientDecode(t *testing.T) {
	data := `{
		"blocks": [{
			"category": "documents_to_review",
			"items": [
				{"email_id": "e1", "subject": "Contract", "confidence": "high", "attachments_count": "2",
				 "attachment_filenames": ["a.pdf", 3, "b.pdf"], "received_at": 17},
				{"email_id": "e2", "confidence": 0.91, "attachments_count": 2, "received_at": "2024-01-01T10:00:00Z"},
				"not an item"
			]
		}]
	}`

	var m DashboardModel
	require.NoError(t, json.Unmarshal([]byte(data), &m))
	require.Len(t, m.Blocks, 1)
	require.Len(t, m.Blocks[0].Items, 3)

	e1 := m.Blocks[0].Items[0]
	assert.Equal(t, "e1", e1.EmailID)
	assert.Equal(t, "Contract", e1.Subject)
	assert.Equal(t, 0.0, e1.Confidence)
	assert.Equal(t, 0, e1.AttachmentsCount)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, e1.AttachmentFilenames)
	assert.Equal(t, "", e1.ReceivedAt)
	assert.Equal(t, int64(0), e1.ReceivedAtMs())

	e2 := m.Blocks[0].Items[1]
	assert.Equal(t, 0.91, e2.Confidence)
	assert.Equal(t, 2, e2.AttachmentsCount)
	assert.Equal(t, "Med", e2.ConfidenceLabel())

	assert.Equal(t, EmailItem{}, m.Blocks[0].Items[2])
}

func TestAttachmentsCountIsClamped(t *testing.T) {
	var e EmailItem
	require.NoError(t, json.Unmarshal([]byte(`{"email_id":"e1","attachments_count":1e300}`), &e))
	assert.Equal(t, math.MaxInt32, e.AttachmentsCount)

	require.NoError(t, json.Unmarshal([]byte(`{"email_id":"e1","attachments_count":-4}`), &e))
	assert.Equal(t, 0, e.AttachmentsCount)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"attachments_count":0`)
}

func TestReceivedAtTime(t *testing.T) {
	e := EmailItem{ReceivedAt: "2024-01-01T10:00:00Z"}
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), e.ReceivedAtTime().UTC())
	assert.Equal(t, int64(1704103200000), e.ReceivedAtMs())

	assert.True(t, EmailItem{ReceivedAt: "soon"}.ReceivedAtTime().IsZero())
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, ClampConfidence(math.NaN()))
	assert.Equal(t, 0.0, ClampConfidence(-1))
	assert.Equal(t, 1.0, ClampConfidence(1.7))
	assert.Equal(t, 0.5, ClampConfidence(0.5))

	assert.Equal(t, "High", EmailItem{Confidence: 3}.ConfidenceLabel())
	assert.Equal(t, "Low", EmailItem{Confidence: 0.2}.ConfidenceLabel())
}

func TestParseInstant(t *testing.T) {
	for _, s := range []string{
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00.123Z",
		"2024-01-01T10:00:00+02:00",
		"2024-01-01T10:00:00",
		"2024-01-01",
	} {
		_, ok := ParseInstant(s)
		assert.True(t, ok, s)
	}

	_, ok := ParseInstant("Jan 1st")
	assert.False(t, ok)

	ts, _ := ParseInstant("2024-01-01T10:00:00.5Z")
	assert.Equal(t, "2024-01-01T10:00:00.500Z", FormatInstant(ts))
}

func TestParseInstantInUsesLocation(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	ts, ok := ParseInstantIn("2024-01-01T10:00:00", berlin)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T09:00:00.000Z", FormatInstant(ts))

	ts, ok = ParseInstantIn("2024-01-01T10:00", berlin)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T09:00:00.000Z", FormatInstant(ts))

	// explicit offsets and bare dates ignore loc
	ts, _ = ParseInstantIn("2024-01-01T10:00:00Z", berlin)
	assert.Equal(t, "2024-01-01T10:00:00.000Z", FormatInstant(ts))
	ts, _ = ParseInstantIn("2024-01-01", berlin)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", FormatInstant(ts))
}

func TestDisplaySender(t *testing.T) {
	assert.Equal(t, "Ann", EmailItem{FromName: "Ann", FromEmail: "a@x"}.DisplaySender())
	assert.Equal(t, "a@x", EmailItem{FromEmail: "a@x"}.DisplaySender())
	assert.Equal(t, "Unknown sender", EmailItem{}.DisplaySender())
}

func TestSnoozeMapOrderAndJSON(t *testing.T) {
	m := NewSnoozeMap()
	m.Set("b", SnoozeEntry{Until: "u1", Preset: SnoozeLaterToday})
	m.Set("a", SnoozeEntry{Until: "u2", Preset: SnoozeTomorrow9})
	m.Set("b", SnoozeEntry{Until: "u3", Preset: SnoozeNextMon9})

	assert.Equal(t, []string{"b", "a"}, m.Keys())

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"until":"u3","preset":"next_mon_9"},"a":{"until":"u2","preset":"tomorrow_9"}}`, string(data))

	var back SnoozeMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "a"}, back.Keys())

	clone := m.Clone()
	clone.Delete("b")
	assert.Equal(t, []string{"a"}, clone.Keys())
	assert.Equal(t, 2, m.Len())

	var zero SnoozeMap
	data, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestSnoozeMapRejectsNonObject(t *testing.T) {
	var m SnoozeMap
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`null`), &m))
}

func TestEmptyTriageStateJSON(t *testing.T) {
	data, err := json.Marshal(EmptyTriageState())
	require.NoError(t, err)
	assert.Equal(t, `{"done":[],"ignored":[],"snoozed":{}}`, string(data))
}

func TestCategoryMeta(t *testing.T) {
	assert.True(t, CategoryUrgentAttention.IsKnown())
	assert.False(t, Category("misc").IsKnown())
	assert.Equal(t, "Documents to review", CategoryDocumentsToReview.Meta().Title)
	assert.Equal(t, "misc", Category("misc").Meta().Title)
	assert.Equal(t, "Snoozed", StripMeta(StripSnoozed).Title)
}
