package board

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. The server omits the zone on some fields.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp handles the server's created_at/updated_at values
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	if str == "" || str == "null" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			ts.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse timestamp: %s", str)
}

// MarshalJSON implements json.Marshaler for Timestamp
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, ts.Time.Format(time.RFC3339))), nil
}

// String returns the timestamp in RFC3339, or "" when unset
func (ts Timestamp) String() string {
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.Format(time.RFC3339)
}
