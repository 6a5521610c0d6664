package booking

import (
	"time"

	"resto-suite-backend/internal/compliance"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/parse"
)

// WindowStatus is the evaluated state of a service window on a given date.
type WindowStatus string

const (
	WindowClosedToday WindowStatus = "closed_today"
	WindowEnded       WindowStatus = "ended"
	WindowOpenNow     WindowStatus = "open_now"
)

// AppliesOn reports whether a window recurs on the given date's weekday.
func AppliesOn(w model.ServiceWindow, date time.Time) bool {
	weekday := int(date.Weekday())
	for _, d := range w.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

// WindowsFor filters windows down to those recurring on the date's weekday.
func WindowsFor(windows []model.ServiceWindow, date time.Time) []model.ServiceWindow {
	var out []model.ServiceWindow
	for _, w := range windows {
		if AppliesOn(w, date) {
			out = append(out, w)
		}
	}
	return out
}

// StatusOf evaluates a window against a date and the current instant.
// A window still in progress on the current date counts as open.
func StatusOf(w model.ServiceWindow, date, now time.Time) WindowStatus {
	if !AppliesOn(w, date) {
		return WindowClosedToday
	}

	end, err := parse.ParseClock(w.EndTime)
	if err != nil {
		// Malformed window: keep it open rather than silently dropping
		// the service from the booking surface.
		return WindowOpenNow
	}
	if compliance.SameDay(date, now) && parse.ClockOf(now) >= end {
		return WindowEnded
	}
	return WindowOpenNow
}

// SlotsFor enumerates the bookable times inside a window on a date: the grid
// start, start+step, ... strictly below end. When the date is the current
// day, slots at or before now are dropped — a slot landing exactly on the
// evaluation instant is excluded, never offered.
func SlotsFor(w model.ServiceWindow, date, now time.Time, stepMinutes int) []parse.Clock {
	if stepMinutes <= 0 {
		stepMinutes = 30
	}
	if !AppliesOn(w, date) {
		return nil
	}

	start, err := parse.ParseClock(w.StartTime)
	if err != nil {
		return nil
	}
	end, err := parse.ParseClock(w.EndTime)
	if err != nil {
		return nil
	}

	today := compliance.SameDay(date, now)
	cutoff := parse.ClockOf(now)

	var slots []parse.Clock
	for s := start; s < end; s += parse.Clock(stepMinutes) {
		if today && s <= cutoff {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

// BookableDates enumerates the dates open for advance booking, starting from
// the given day. Enumeration simply stops at the configured bound; exceeding
// it is not an error, the caller just never sees dates past it.
func BookableDates(from time.Time, advanceDays int) []time.Time {
	if advanceDays <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, advanceDays)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i < advanceDays; i++ {
		dates = append(dates, day.AddDate(0, 0, i))
	}
	return dates
}

// countsAgainstCovers reports whether a reservation still occupies seats.
func countsAgainstCovers(status string) bool {
	return status != model.ReservationCancelled && status != model.ReservationNoShow
}

// RemainingCovers subtracts the party sizes of live reservations falling
// inside the window from its capacity. Never negative.
func RemainingCovers(w model.ServiceWindow, reservations []model.Reservation) int {
	start, errStart := parse.ParseClock(w.StartTime)
	end, errEnd := parse.ParseClock(w.EndTime)
	if errStart != nil || errEnd != nil {
		return w.MaxCovers
	}

	taken := 0
	for _, r := range reservations {
		if !countsAgainstCovers(r.Status) {
			continue
		}
		t, err := parse.ParseClock(r.Time)
		if err != nil {
			continue
		}
		if t >= start && t < end {
			taken += r.PartySize
		}
	}

	remaining := w.MaxCovers - taken
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WindowAvailability is the public-surface view of one window on one date.
type WindowAvailability struct {
	WindowID        int64        `json:"window_id"`
	Name            string       `json:"name"`
	StartTime       string       `json:"start_time"`
	EndTime         string       `json:"end_time"`
	Status          WindowStatus `json:"status"`
	RemainingCovers int          `json:"remaining_covers"`
	Slots           []string     `json:"slots"`
}

// ForDay evaluates every window applying on the date and renders slot grids
// for the open ones. The result is pure derived state: recomputed from the
// inputs on every call, never cached.
func ForDay(windows []model.ServiceWindow, reservations []model.Reservation, date, now time.Time, stepMinutes int) []WindowAvailability {
	out := make([]WindowAvailability, 0)
	for _, w := range WindowsFor(windows, date) {
		wa := WindowAvailability{
			WindowID:        w.ID,
			Name:            w.Name,
			StartTime:       w.StartTime,
			EndTime:         w.EndTime,
			Status:          StatusOf(w, date, now),
			RemainingCovers: RemainingCovers(w, reservations),
			Slots:           []string{},
		}
		if wa.Status == WindowOpenNow {
			for _, s := range SlotsFor(w, date, now, stepMinutes) {
				wa.Slots = append(wa.Slots, s.String())
			}
		}
		out = append(out, wa)
	}
	return out
}

// WindowForTime finds the window containing a requested time on a date, used
// to validate incoming reservations. Returns nil when no window matches.
func WindowForTime(windows []model.ServiceWindow, date time.Time, at parse.Clock) *model.ServiceWindow {
	for _, w := range WindowsFor(windows, date) {
		start, errStart := parse.ParseClock(w.StartTime)
		end, errEnd := parse.ParseClock(w.EndTime)
		if errStart != nil || errEnd != nil {
			continue
		}
		if at >= start && at < end {
			found := w
			return &found
		}
	}
	return nil
}
