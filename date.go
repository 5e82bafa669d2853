package lawharvest

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2/1/2006",
	"2-1-2006",
}

// Date is a calendar date that may have failed to parse.
// An unparsed Date keeps its source text in Raw so nothing is dropped.
type Date struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// NormalizeDate parses s against the supported layouts.
func NormalizeDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t, Raw: s, Valid: true}
		}
	}
	return Date{Raw: s}
}

// IsZero reports whether the date carries neither a parsed value nor raw text.
func (d Date) IsZero() bool {
	return !d.Valid && d.Raw == ""
}

// String returns the ISO date when parsed and the raw text otherwise.
func (d Date) String() string {
	if d.Valid {
		return d.Time.Format(DateLayout)
	}
	return d.Raw
}

// ISO returns the ISO date and true, or "" and false when unparsed.
func (d Date) ISO() (string, bool) {
	if !d.Valid {
		return "", false
	}
	return d.Time.Format(DateLayout), true
}

// MarshalJSON encodes the date as its String form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a string through NormalizeDate.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = NormalizeDate(s)
	return nil
}

// Ptr returns the ISO date, or nil when unparsed.
func (d Date) Ptr() *string {
	s, ok := d.ISO()
	if !ok {
		return nil
	}
	return &s
}
