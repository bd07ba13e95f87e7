package sports

import (
	"strconv"
	"strings"
	"time"
)

// GatewayTime is a wrapper around time.Time that can unmarshal the
// several timestamp spellings TheSportsDB uses across endpoints:
// RFC3339, "YYYY-MM-DDThh:mm:ss" without zone, and a space-separated form.
type GatewayTime struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *GatewayTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	var parseErr error
	layouts := []string{
		time.RFC3339,             // 2006-01-02T15:04:05Z07:00
		"2006-01-02T15:04:05",    // strTimestamp without zone
		"2006-01-02 15:04:05",    // older payloads
		"2006-01-02T15:04Z07:00", // no seconds
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		} else {
			parseErr = err
		}
	}
	return parseErr
}

// OptionalInt decodes scores that arrive as a JSON number, a numeric
// string, an empty string or null.
type OptionalInt struct {
	Value *int
}

// UnmarshalJSON implements the json.Unmarshaler interface. Values that
// are not numeric decode to an absent score rather than an error.
func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		o.Value = nil
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		o.Value = nil
		return nil
	}
	o.Value = &n
	return nil
}

// lenientTime is a GatewayTime that decodes unknown layouts to the zero
// time, so one odd timestamp cannot fail a whole event list.
type lenientTime struct {
	GatewayTime
}

func (t *lenientTime) UnmarshalJSON(b []byte) error {
	if err := t.GatewayTime.UnmarshalJSON(b); err != nil {
		t.Time = time.Time{}
	}
	return nil
}
