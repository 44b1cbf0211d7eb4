package schedule_test

import (
	"errors"
	"testing"
	"time"

	"vidpub/internal/schedule"
	"vidpub/internal/services"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := schedule.ParseDate(value)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", value, err)
	}
	return d
}

func TestComingWeekday(t *testing.T) {
	t.Parallel()

	thu := mustDate(t, "2021-09-02")
	fri, ok := schedule.ComingWeekday(thu, time.Friday)
	if !ok || !fri.Equal(mustDate(t, "2021-09-03")) {
		t.Fatalf("expected 2021-09-03, got %s ok=%v", fri, ok)
	}

	alreadyFri := mustDate(t, "2021-09-03")
	next, ok := schedule.ComingWeekday(alreadyFri, time.Friday)
	if !ok || !next.Equal(mustDate(t, "2021-09-10")) {
		t.Fatalf("expected 2021-09-10, got %s ok=%v", next, ok)
	}
}

func TestComingWeekdaySameDayIsOneWeekLater(t *testing.T) {
	t.Parallel()

	start := mustDate(t, "2024-01-01")
	for i := 0; i < 7; i++ {
		now := start.AddDate(0, 0, i)
		got, ok := schedule.ComingWeekday(now, now.Weekday())
		if !ok {
			t.Fatalf("unexpected miss for %s", now)
		}
		if want := now.AddDate(0, 0, 7); !got.Equal(want) {
			t.Fatalf("same weekday %s: got %s want %s", now.Weekday(), got, want)
		}
	}
}

func TestComingWeekdayWithinOneWeek(t *testing.T) {
	t.Parallel()

	start := mustDate(t, "2024-02-26")
	for i := 0; i < 14; i++ {
		now := start.AddDate(0, 0, i)
		for day := time.Sunday; day <= time.Saturday; day++ {
			if day == now.Weekday() {
				continue
			}
			got, ok := schedule.ComingWeekday(now, day)
			if !ok {
				t.Fatalf("unexpected miss for %s/%s", now, day)
			}
			if got.Weekday() != day {
				t.Fatalf("got weekday %s want %s", got.Weekday(), day)
			}
			diff := got.Sub(now)
			if diff < 24*time.Hour || diff > 7*24*time.Hour {
				t.Fatalf("%s -> %s: %s outside [1,7] days", now, day, diff)
			}
		}
	}
}

func TestComingWeekdayInvalidDayReturnsStart(t *testing.T) {
	t.Parallel()

	start := mustDate(t, "2024-02-26")
	got, ok := schedule.ComingWeekday(start, time.Weekday(9))
	if ok || !got.Equal(start) {
		t.Fatalf("expected unchanged start and miss, got %s ok=%v", got, ok)
	}

	_, err := schedule.Resolve(schedule.NextWeekday{Day: time.Weekday(9)}, schedule.Params{Now: start})
	if !errors.Is(err, schedule.ErrResolverDefect) {
		t.Fatalf("expected resolver defect, got %v", err)
	}
}

func TestAddWeeks(t *testing.T) {
	t.Parallel()

	origin := mustDate(t, "2020-09-01")
	for n := 0; n <= 255; n++ {
		got := schedule.AddWeeks(origin, uint8(n))
		if want := origin.AddDate(0, 0, 7*n); !got.Equal(want) {
			t.Fatalf("n=%d: got %s want %s", n, got, want)
		}
	}
}

func TestParseDateTimeWithoutTime(t *testing.T) {
	t.Parallel()

	a, err := schedule.ParseDateTime("2021-09-02")
	if err != nil {
		t.Fatalf("ParseDateTime date-only: %v", err)
	}
	b, err := schedule.ParseDateTime("2021-09-02 00:00:00")
	if err != nil {
		t.Fatalf("ParseDateTime full: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("expected equal timestamps, got %s and %s", a, b)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"2021-13-01", "2021-02-30", "2021-00-10", "21-09-02", "2021-09-02 24:00:00", "2021-09-02 10:60:00", "2021-09-02 10:00:61"} {
		if _, err := schedule.ParseDateTime(value); err == nil {
			t.Fatalf("expected error for %q", value)
		} else if !errors.Is(err, services.ErrParse) {
			t.Fatalf("expected parse marker for %q, got %v", value, err)
		}
	}
	if _, err := schedule.ParseClock("25:00:00"); err == nil {
		t.Fatal("expected clock parse error")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"asap", "asap"},
		{"asap=ignored", "asap"},
		{"coming=friday", "coming=friday"},
		{"coming=Mon", "coming=monday"},
		{"weeks-from-episode", "weeks-from-episode"},
		{"iso-date=2021-09-03", "iso-date=2021-09-03"},
		{"iso-date-time=2021-09-03 10:30:00", "iso-date-time=2021-09-03 10:30:00"},
		{"iso-date-time=2021-09-03", "iso-date-time=2021-09-03 00:00:00"},
	}
	for _, tc := range cases {
		mode, err := schedule.ParseMode(tc.raw)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tc.raw, err)
		}
		if mode.String() != tc.want {
			t.Fatalf("ParseMode(%q) = %q, want %q", tc.raw, mode.String(), tc.want)
		}
	}

	for _, raw := range []string{"", "later", "coming", "coming=someday", "iso-date=2021-9-3", "iso-date-time=tomorrow"} {
		_, err := schedule.ParseMode(raw)
		var perr *schedule.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("ParseMode(%q): expected ParseError, got %v", raw, err)
		}
	}
}

func TestModeValueSet(t *testing.T) {
	t.Parallel()

	var v schedule.ModeValue
	if err := v.Set("coming=sat"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := v.Mode.(schedule.NextWeekday); !ok || v.String() != "coming=saturday" {
		t.Fatalf("unexpected mode %#v", v.Mode)
	}
	if err := v.Set("nope"); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if v.String() != "coming=saturday" {
		t.Fatalf("failed Set should keep previous mode, got %q", v.String())
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2021, 9, 2, 15, 4, 5, 0, time.UTC) // Thursday
	clock := schedule.ClockTime{Hour: 8}
	ep := uint8(0x2A)

	cases := []struct {
		name string
		mode schedule.Mode
		want string
	}{
		{"immediate", schedule.Immediate{}, "2021-09-02T08:00:00Z"},
		{"coming friday", schedule.NextWeekday{Day: time.Friday}, "2021-09-03T08:00:00Z"},
		{"coming thursday", schedule.NextWeekday{Day: time.Thursday}, "2021-09-09T08:00:00Z"},
		{"weeks", schedule.WeeksAfterEpoch{}, "2021-06-22T08:00:00Z"},
		{"date", schedule.FixedDate{Date: mustDate(t, "2022-01-31")}, "2022-01-31T08:00:00Z"},
		{"datetime", schedule.FixedDateTime{At: time.Date(2022, 1, 31, 17, 30, 0, 0, time.UTC)}, "2022-01-31T17:30:00Z"},
	}
	for _, tc := range cases {
		got, err := schedule.Resolve(tc.mode, schedule.Params{Now: now, Clock: clock, Origin: "2020-09-01", Episode: &ep})
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if s := schedule.Format(got); s != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, s, tc.want)
		}
	}
}

func TestResolveWeeksAfterEpochFailures(t *testing.T) {
	t.Parallel()

	now := time.Date(2021, 9, 2, 0, 0, 0, 0, time.UTC)
	if _, err := schedule.Resolve(schedule.WeeksAfterEpoch{}, schedule.Params{Now: now, Origin: "2020-09-01"}); !errors.Is(err, schedule.ErrMissingEpisode) {
		t.Fatalf("expected missing episode, got %v", err)
	}
	ep := uint8(1)
	_, err := schedule.Resolve(schedule.WeeksAfterEpoch{}, schedule.Params{Now: now, Origin: "2020-13-01", Episode: &ep})
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error for bad origin, got %v", err)
	}
}

func TestFormatUsesUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	got := schedule.Format(time.Date(2021, 9, 2, 10, 0, 0, 0, loc))
	if got != "2021-09-02T08:00:00Z" {
		t.Fatalf("unexpected format %s", got)
	}
}

func TestMethodsCoverEveryKey(t *testing.T) {
	t.Parallel()

	for _, m := range schedule.Methods() {
		mode, err := schedule.ParseMode(m.Example)
		if err != nil {
			t.Fatalf("example %q does not parse: %v", m.Example, err)
		}
		if mode.Key() != m.Key {
			t.Fatalf("example %q parsed to key %q, want %q", m.Example, mode.Key(), m.Key)
		}
	}
}
