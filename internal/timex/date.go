package timex

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the d-MMM-yy format of DateEaten and DateWeight.
	DateLayout = "2-Jan-06"
	// TimeLayout is the HH:mm format of TimeEaten.
	TimeLayout = "15:04"
)

// ParseDate parses a d-MMM-yy date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as d-MMM-yy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders t as HH:mm.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// DateSortKey parses s for ordering. Unparsable dates sort as the Unix epoch.
func DateSortKey(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// EatenMinutes returns the whole minutes between the Unix epoch and the
// wall-clock date and time, both read as UTC.
func EatenMinutes(date, clock string) (int64, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	c, err := time.Parse(TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	at := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC)
	return at.Unix() / 60, nil
}
