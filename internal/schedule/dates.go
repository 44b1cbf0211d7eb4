package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	dateTimeLayout = dateLayout + " " + clockLayout
	// TimestampLayout is the wire form of publish timestamps: UTC, second precision, Z designator.
	TimestampLayout = "2006-01-02T15:04:05Z"
)

// ClockTime is a wall-clock time of day applied to a resolved date.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// On places the clock time on the calendar day of d, in UTC.
func (c ClockTime) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, c.Hour, c.Minute, c.Second, 0, time.UTC)
}

// ParseClock parses an HH:MM:SS time of day.
func ParseClock(value string) (ClockTime, error) {
	trimmed := strings.TrimSpace(value)
	t, err := time.Parse(clockLayout, trimmed)
	if err != nil {
		return ClockTime{}, parseErr("clock time", value, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD) to UTC midnight.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, parseErr("date", value, errors.New("empty value"))
	}
	t, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return time.Time{}, parseErr("date", value, err)
	}
	return t, nil
}

// ParseDateTime parses "YYYY-MM-DD HH:MM:SS"; the time part is optional and
// defaults to midnight.
func ParseDateTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == len(dateLayout) {
		trimmed += " 00:00:00"
	}
	t, err := time.Parse(dateTimeLayout, trimmed)
	if err != nil {
		return time.Time{}, parseErr("date-time", value, err)
	}
	return t, nil
}

// Format renders t in the publish timestamp wire form.
func Format(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// midnight keeps t's calendar date as seen in t's location and returns UTC midnight of it.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComingWeekday returns the next date after start that falls on day. When start
// already is that weekday the result is one week later. The boolean is false
// only when no date in the following week matched, in which case start is
// returned unchanged.
func ComingWeekday(start time.Time, day time.Weekday) (time.Time, bool) {
	start = midnight(start)
	if start.Weekday() == day {
		return start.AddDate(0, 0, 7), true
	}
	for offset := 1; offset < 7; offset++ {
		candidate := start.AddDate(0, 0, offset)
		if candidate.Weekday() == day {
			return candidate, true
		}
	}
	return start, false
}

// AddWeeks returns start shifted by the given number of weeks.
func AddWeeks(start time.Time, weeks uint8) time.Time {
	return start.AddDate(0, 0, 7*int(weeks))
}
