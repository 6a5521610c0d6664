package compliance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Level classifies a derived compliance status. Levels are recomputed from
// entity state and the current instant on every read, never stored.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelExpired  Level = "expired"
)

// Frequency is a cleaning task's recurrence.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyOnDemand Frequency = "on_demand"
)

// KnownFrequency reports whether f is one of the recognized recurrence values.
func KnownFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyOnDemand:
		return true
	}
	return false
}

// Readings more than this far beyond the nearer bound are critical.
var criticalDeviation = decimal.NewFromInt(3)

// Classify grades a measured value against an inclusive [min, max] range.
// A nil bound is treated as unbounded on that side, so a misconfigured
// entity degrades to permissive rather than failing the caller.
func Classify(value decimal.Decimal, min, max *decimal.Decimal) Level {
	var deviation decimal.Decimal
	switch {
	case min != nil && value.LessThan(*min):
		deviation = min.Sub(value)
	case max != nil && value.GreaterThan(*max):
		deviation = value.Sub(*max)
	default:
		return LevelOK
	}

	if deviation.GreaterThan(criticalDeviation) {
		return LevelCritical
	}
	return LevelWarning
}

// midnight truncates an instant to its local calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysUntil returns the calendar-day difference from today to target,
// comparing local midnights rather than instants. Same-day targets yield 0,
// yesterday yields -1. Rounding absorbs the odd hour around DST transitions.
func DaysUntil(target, today time.Time) int {
	diff := midnight(target).Sub(midnight(today))
	return int(math.Round(diff.Hours() / 24))
}

// NeedsPeriodicAction reports whether a recurring task is due. A task that
// has never been done is always due, except for on-demand tasks, which are
// never due on their own.
func NeedsPeriodicAction(freq Frequency, lastDone *time.Time, now time.Time) bool {
	if freq == FrequencyOnDemand {
		return false
	}
	if lastDone == nil {
		return true
	}

	elapsedDays := -DaysUntil(*lastDone, now)
	switch freq {
	case FrequencyDaily:
		return elapsedDays != 0
	case FrequencyWeekly:
		return elapsedDays >= 7
	case FrequencyMonthly:
		return elapsedDays >= 30
	}
	// Unrecognized frequency: degrade to not-due so one bad row never
	// floods the alert feed.
	return false
}

// ShelfLifeLevel grades a product by calendar days left until its use-by
// date. Negative means the date has passed.
func ShelfLifeLevel(daysLeft int) Level {
	switch {
	case daysLeft < 0:
		return LevelExpired
	case daysLeft <= 1:
		return LevelCritical
	case daysLeft <= 2:
		return LevelWarning
	}
	return LevelOK
}
