package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects how the publish timestamp is computed.
type Mode interface {
	fmt.Stringer
	// Key is the method name used in the key=value form.
	Key() string
	isMode()
}

// Immediate publishes today.
type Immediate struct{}

// NextWeekday publishes on the coming occurrence of Day, never today.
type NextWeekday struct {
	Day time.Weekday
}

// WeeksAfterEpoch publishes episodeNumber weeks after the first-episode date.
type WeeksAfterEpoch struct{}

// FixedDate publishes on Date at the configured clock time.
type FixedDate struct {
	Date time.Time
}

// FixedDateTime publishes exactly at At.
type FixedDateTime struct {
	At time.Time
}

const (
	keyImmediate       = "asap"
	keyNextWeekday     = "coming"
	keyWeeksAfterEpoch = "weeks-from-episode"
	keyFixedDate       = "iso-date"
	keyFixedDateTime   = "iso-date-time"
)

func (Immediate) isMode()       {}
func (NextWeekday) isMode()     {}
func (WeeksAfterEpoch) isMode() {}
func (FixedDate) isMode()       {}
func (FixedDateTime) isMode()   {}

func (Immediate) Key() string       { return keyImmediate }
func (NextWeekday) Key() string     { return keyNextWeekday }
func (WeeksAfterEpoch) Key() string { return keyWeeksAfterEpoch }
func (FixedDate) Key() string       { return keyFixedDate }
func (FixedDateTime) Key() string   { return keyFixedDateTime }

func (Immediate) String() string { return keyImmediate }

func (m NextWeekday) String() string {
	return keyNextWeekday + "=" + strings.ToLower(m.Day.String())
}

func (WeeksAfterEpoch) String() string { return keyWeeksAfterEpoch }

func (m FixedDate) String() string {
	return keyFixedDate + "=" + m.Date.Format(dateLayout)
}

func (m FixedDateTime) String() string {
	return keyFixedDateTime + "=" + m.At.Format(dateTimeLayout)
}

// MethodInfo documents one scheduling method for help output.
type MethodInfo struct {
	Key     string
	Example string
	Summary string
}

// Methods lists the supported scheduling methods in display order.
func Methods() []MethodInfo {
	return []MethodInfo{
		{Key: keyImmediate, Example: "asap", Summary: "current date at the publish time, publishes as soon as possible"},
		{Key: keyNextWeekday, Example: "coming=friday", Summary: "date of the coming weekday; the same weekday resolves to one week later"},
		{Key: keyWeeksAfterEpoch, Example: "weeks-from-episode", Summary: "first episode date plus one week per episode number"},
		{Key: keyFixedDate, Example: "iso-date=2021-09-03", Summary: "given ISO date at the publish time"},
		{Key: keyFixedDateTime, Example: "iso-date-time=2021-09-03 08:00:00", Summary: "given ISO date and time"},
	}
}

// ParseMode parses the key=value form. A missing '=' leaves the value empty.
func ParseMode(raw string) (Mode, error) {
	key, value, _ := strings.Cut(strings.TrimSpace(raw), "=")
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case keyImmediate:
		return Immediate{}, nil
	case keyNextWeekday:
		day, err := ParseWeekday(value)
		if err != nil {
			return nil, err
		}
		return NextWeekday{Day: day}, nil
	case keyWeeksAfterEpoch:
		return WeeksAfterEpoch{}, nil
	case keyFixedDate:
		date, err := ParseDate(value)
		if err != nil {
			return nil, err
		}
		return FixedDate{Date: date}, nil
	case keyFixedDateTime:
		at, err := ParseDateTime(value)
		if err != nil {
			return nil, err
		}
		return FixedDateTime{At: at}, nil
	default:
		return nil, parseErr("publish method", raw, errors.New("unknown method"))
	}
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday accepts full or three-letter English weekday names, any case.
func ParseWeekday(value string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return 0, parseErr("weekday", value, errors.New("unknown weekday"))
	}
	return day, nil
}

// ModeValue adapts a Mode to the pflag.Value interface so flags are
// validated while the command line is parsed.
type ModeValue struct {
	Mode Mode
}

func (v *ModeValue) String() string {
	if v == nil || v.Mode == nil {
		return ""
	}
	return v.Mode.String()
}

func (v *ModeValue) Set(raw string) error {
	mode, err := ParseMode(raw)
	if err != nil {
		return err
	}
	v.Mode = mode
	return nil
}

func (v *ModeValue) Type() string { return "method[=value]" }
