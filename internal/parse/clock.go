package parse

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes since midnight. Service window
// bounds and reservation times travel as "HH:MM" strings and are parsed into
// Clock values for arithmetic.
type Clock int

const clockLayout = "15:04"

// ParseClock parses an "HH:MM" string into a Clock.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// ClockOf truncates an instant to its time of day. Seconds are dropped, so an
// instant inside a minute compares equal to the minute's slot.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// String renders the clock back as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// At pins the clock to a calendar date, in the date's location.
func (c Clock) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, date.Location())
}

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string into a midnight instant in the given
// location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
