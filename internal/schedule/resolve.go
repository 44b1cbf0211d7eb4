package schedule

import (
	"fmt"
	"time"
)

// Params carries the inputs Resolve needs beyond the mode itself.
type Params struct {
	// Now is the reference instant; its calendar date is taken in its own location.
	Now time.Time
	// Clock is the time of day applied to date-only modes.
	Clock ClockTime
	// Origin is the first-episode date (YYYY-MM-DD) for WeeksAfterEpoch.
	Origin string
	// Episode is the episode number for WeeksAfterEpoch, nil when unknown.
	Episode *uint8
}

// Resolve computes the absolute publish time in UTC with second precision.
func Resolve(mode Mode, p Params) (time.Time, error) {
	switch m := mode.(type) {
	case Immediate:
		return p.Clock.On(midnight(p.Now)), nil
	case NextWeekday:
		date, ok := ComingWeekday(p.Now, m.Day)
		if !ok {
			return time.Time{}, fmt.Errorf("%w: weekday %d from %s", ErrResolverDefect, int(m.Day), date.Format(dateLayout))
		}
		return p.Clock.On(date), nil
	case WeeksAfterEpoch:
		origin, err := ParseDate(p.Origin)
		if err != nil {
			return time.Time{}, fmt.Errorf("first episode date: %w", err)
		}
		if p.Episode == nil {
			return time.Time{}, ErrMissingEpisode
		}
		return p.Clock.On(AddWeeks(origin, *p.Episode)), nil
	case FixedDate:
		return p.Clock.On(m.Date), nil
	case FixedDateTime:
		return m.At.UTC().Truncate(time.Second), nil
	case nil:
		return time.Time{}, parseErr("publish method", "", fmt.Errorf("no method selected"))
	default:
		return time.Time{}, parseErr("publish method", mode.String(), fmt.Errorf("unsupported method %T", mode))
	}
}
