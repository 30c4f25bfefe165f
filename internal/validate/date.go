package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Epoch-millisecond inputs must land in years 1 through 9999, the range
// time.Time round-trips through RFC 3339.
const (
	minDateMillis = -62135596800000 // 0001-01-01T00:00:00Z
	maxDateMillis = 253402300799999 // 9999-12-31T23:59:59.999Z
)

// Date is a timestamp body field that accepts an RFC 3339 string, a date or
// date-time string without zone, or a number of milliseconds since the epoch.
type Date struct {
	time.Time
}

// ParseDate parses s with the layouts Date accepts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("validate: %q is not a date", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := ParseDate(s)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("validate: %s is not a date", b)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < minDateMillis || ms > maxDateMillis {
		return fmt.Errorf("validate: %s is not a date", b)
	}
	d.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}
