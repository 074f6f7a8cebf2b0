package models

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are accepted in the order listed. HTML date inputs send the
// first form; API clients usually send RFC 3339.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
}

// ParseDate parses a calendar date or timestamp. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Date is a JSON date that accepts both "2006-01-02" and RFC 3339 input.
// An empty string decodes to the zero value, which clears optional dates.
// A null never reaches UnmarshalJSON for a *Date field: the pointer stays
// nil and the date is left unchanged.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		d.Time = time.Time{}
		return nil
	}
	s = strings.Trim(s, `"`)
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Ptr returns nil for the zero date and a pointer to the time otherwise.
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
