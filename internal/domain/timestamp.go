package domain

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. Offset-aware forms come first; the
// offset-naive forms are interpreted as UTC, matching the chronograph and
// weather-meter exports that omit a zone designator.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.999999999", naive: true},
	{layout: "2006-01-02 15:04:05.999999999", naive: true},
}

// ParseTimestamp parses an ISO-8601 timestamp, assuming UTC when no offset
// is present, and returns it normalized to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, l := range timestampLayouts {
		var t time.Time
		var err error
		if l.naive {
			t, err = time.ParseInLocation(l.layout, s, time.UTC)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp renders a time as the canonical stored form (RFC 3339 UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
