package model

import (
	"encoding/json"
	"math"
	"time"
)

type EmailItem struct {
	EmailID             string   `json:"email_id"`
	Subject             string   `json:"subject"`
	FromName            string   `json:"from_name"`
	FromEmail           string   `json:"from_email"`
	Snippet             string   `json:"snippet"`
	SuggestedAction     string   `json:"suggested_action"`
	Reason              string   `json:"reason"`
	ReceivedAt          string   `json:"received_at"`
	Confidence          float64  `json:"confidence"`
	AttachmentsCount    int      `json:"attachments_count"`
	AttachmentFilenames []string `json:"attachment_filenames"`
}

// UnmarshalJSON decodes an item leniently: a field with the wrong JSON type
// decodes to its zero value instead of failing the whole model.
func (e *EmailItem) UnmarshalJSON(data []byte) error {
	*e = EmailItem{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	e.EmailID = lenientString(raw["email_id"])
	e.Subject = lenientString(raw["subject"])
	e.FromName = lenientString(raw["from_name"])
	e.FromEmail = lenientString(raw["from_email"])
	e.Snippet = lenientString(raw["snippet"])
	e.SuggestedAction = lenientString(raw["suggested_action"])
	e.Reason = lenientString(raw["reason"])
	e.ReceivedAt = lenientString(raw["received_at"])
	e.Confidence = lenientFloat(raw["confidence"])

	count := lenientFloat(raw["attachments_count"])
	if count > 0 {
		e.AttachmentsCount = int(math.Min(count, math.MaxInt32))
	}
	e.AttachmentFilenames = lenientStrings(raw["attachment_filenames"])

	return nil
}

// ReceivedAtTime parses ReceivedAt, returning the zero time when it is missing or malformed
func (e EmailItem) ReceivedAtTime() time.Time {
	t, ok := ParseInstant(e.ReceivedAt)
	if !ok {
		return time.Time{}
	}
	return t
}

// ReceivedAtMs returns ReceivedAt as Unix milliseconds, or 0 (epoch) when it
// cannot be parsed.
func (e EmailItem) ReceivedAtMs() int64 {
	t := e.ReceivedAtTime()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// ClampedConfidence returns the confidence clamped to [0,1], NaN becomes 0.
func (e EmailItem) ClampedConfidence() float64 {
	return ClampConfidence(e.Confidence)
}

// ConfidenceLabel buckets the clamped confidence into High, Med or Low
func (e EmailItem) ConfidenceLabel() string {
	v := e.ClampedConfidence()
	switch {
	case v >= 0.92:
		return "High"
	case v >= 0.85:
		return "Med"
	default:
		return "Low"
	}
}

// DisplaySender returns the sender name, falling back to the address.
func (e EmailItem) DisplaySender() string {
	if e.FromName != "" {
		return e.FromName
	}
	if e.FromEmail != "" {
		return e.FromEmail
	}
	return "Unknown sender"
}

func ClampConfidence(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

// instantLayouts are tried in order. Layouts without an offset are read in
// the caller's location, the bare date is read as UTC.
var instantLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

// ParseInstant parses an ISO-8601 instant as written by the model and the
// triage store. Inputs without an offset are read in the process local zone.
func ParseInstant(s string) (time.Time, bool) {
	return ParseInstantIn(s, time.Local)
}

// ParseInstantIn is ParseInstant with inputs without an offset read in loc.
func ParseInstantIn(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range instantLayouts {
		in := time.UTC
		if l.zoned {
			in = loc
		}
		if t, err := time.ParseInLocation(l.layout, s, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatInstant writes t as a UTC ISO-8601 string with millisecond precision.
func FormatInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func lenientFloat(raw json.RawMessage) float64 {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return 0
	}
	return f
}

func lenientStrings(raw json.RawMessage) []string {
	var values []interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &values) != nil {
		return []string{}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
