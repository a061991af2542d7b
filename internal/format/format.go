// Package format turns raw conversation fields into display strings.
//
// Everything here is pure. Timestamp rendering is the only operation that can
// fail, and it reports the failure instead of hiding it so the caller can show
// the raw value.
package format

import (
	"encoding/json"
	"fmt"
	"time"
)

// Placeholder is shown for missing values.
const Placeholder = "-"

// Layout is the long Japanese date-time form used across the dashboard.
const Layout = "2006年01月02日 15:04:05"

// inputLayouts are tried in order. The backend emits Python isoformat()
// strings, which carry no offset and are read in the formatter's location.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// dateOnly values are midnight UTC, as a browser Date reads them.
const dateOnly = "2006-01-02"

// TimestampError reports a value that is not a recognizable instant.
type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("unparseable timestamp %q", e.Value)
}

// Formatter renders timestamps in a fixed location.
type Formatter struct {
	loc *time.Location
}

// New returns a Formatter for loc. A nil loc means time.Local.
func New(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{loc: loc}
}

// Location returns the location timestamps are rendered in.
func (f Formatter) Location() *time.Location {
	if f.loc == nil {
		return time.Local
	}
	return f.loc
}

// Timestamp renders value as Layout. An empty value yields Placeholder.
func (f Formatter) Timestamp(value string) (string, error) {
	if value == "" {
		return Placeholder, nil
	}
	t, err := f.Parse(value)
	if err != nil {
		return "", err
	}
	return t.In(f.Location()).Format(Layout), nil
}

// Parse reads value as an instant. Offset-less date-times are taken to be in
// the formatter's location.
func (f Formatter) Parse(value string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, value, f.Location()); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, &TimestampError{Value: value}
}

// Timestamp formats value with a time.Local formatter.
func Timestamp(value string) (string, error) {
	return New(nil).Timestamp(value)
}

// OrPlaceholder returns *s, or Placeholder when s is nil or empty.
func OrPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return Placeholder
	}
	return *s
}

// Arguments dumps an executed function's arguments as indented JSON.
func Arguments(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	out, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		// Values decoded from JSON always re-encode; this only triggers for
		// hand-built maps.
		return fmt.Sprintf("%v", args)
	}
	return string(out)
}
