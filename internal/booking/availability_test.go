package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/parse"
)

// lunchWindow recurs every day of the week, 12:00-14:00, 40 covers.
func lunchWindow() model.ServiceWindow {
	return model.ServiceWindow{
		ID:         1,
		Name:       "Lunch",
		StartTime:  "12:00",
		EndTime:    "14:00",
		DaysOfWeek: datatypes.JSONSlice[int]{0, 1, 2, 3, 4, 5, 6},
		MaxCovers:  40,
	}
}

// dinnerFriSat recurs Fridays and Saturdays only.
func dinnerFriSat() model.ServiceWindow {
	return model.ServiceWindow{
		ID:         2,
		Name:       "Dinner",
		StartTime:  "19:00",
		EndTime:    "22:30",
		DaysOfWeek: datatypes.JSONSlice[int]{5, 6},
		MaxCovers:  60,
	}
}

func clk(t *testing.T, s string) parse.Clock {
	c, err := parse.ParseClock(s)
	require.NoError(t, err)
	return c
}

func TestWindowsFor(t *testing.T) {
	windows := []model.ServiceWindow{lunchWindow(), dinnerFriSat()}

	// 2025-06-11 is a Wednesday.
	wednesday := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	got := WindowsFor(windows, wednesday)
	require.Len(t, got, 1)
	assert.Equal(t, "Lunch", got[0].Name)

	// 2025-06-13 is a Friday.
	friday := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	got = WindowsFor(windows, friday)
	assert.Len(t, got, 2)
}

func TestStatusOf(t *testing.T) {
	w := dinnerFriSat()
	friday := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		date     time.Time
		now      time.Time
		expected WindowStatus
	}{
		{
			name:     "Weekday not in set",
			date:     time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			now:      time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC),
			expected: WindowClosedToday,
		},
		{
			name:     "Today before start",
			date:     friday,
			now:      time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC),
			expected: WindowOpenNow,
		},
		{
			name:     "Today in progress",
			date:     friday,
			now:      time.Date(2025, 6, 13, 20, 0, 0, 0, time.UTC),
			expected: WindowOpenNow,
		},
		{
			name:     "Today exactly at end",
			date:     friday,
			now:      time.Date(2025, 6, 13, 22, 30, 0, 0, time.UTC),
			expected: WindowEnded,
		},
		{
			name:     "Today after end",
			date:     friday,
			now:      time.Date(2025, 6, 13, 23, 0, 0, 0, time.UTC),
			expected: WindowEnded,
		},
		{
			name:     "Future date ignores current time",
			date:     time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			now:      time.Date(2025, 6, 13, 23, 0, 0, 0, time.UTC),
			expected: WindowOpenNow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusOf(w, tc.date, tc.now))
		})
	}
}

func TestSlotsFor(t *testing.T) {
	w := lunchWindow()
	date := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	t.Run("Full grid on a future date", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
		slots := SlotsFor(w, date, now, 30)
		expected := []parse.Clock{clk(t, "12:00"), clk(t, "12:30"), clk(t, "13:00"), clk(t, "13:30")}
		assert.Equal(t, expected, slots)
	})

	t.Run("End of window is never a slot", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		slots := SlotsFor(w, date, now, 60)
		assert.Equal(t, []parse.Clock{clk(t, "12:00"), clk(t, "13:00")}, slots)
	})

	t.Run("Today drops elapsed slots", func(t *testing.T) {
		now := time.Date(2025, 6, 13, 12, 45, 0, 0, time.UTC)
		slots := SlotsFor(w, date, now, 30)
		assert.Equal(t, []parse.Clock{clk(t, "13:00"), clk(t, "13:30")}, slots)
	})

	t.Run("Slot exactly at now is excluded", func(t *testing.T) {
		now := time.Date(2025, 6, 13, 13, 0, 0, 0, time.UTC)
		slots := SlotsFor(w, date, now, 30)
		assert.Equal(t, []parse.Clock{clk(t, "13:30")}, slots)
	})

	t.Run("Weekday not in set yields nothing", func(t *testing.T) {
		wed := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
		assert.Nil(t, SlotsFor(dinnerFriSat(), wed, wed, 30))
	})

	t.Run("Recomputation is idempotent", func(t *testing.T) {
		now := time.Date(2025, 6, 13, 12, 45, 0, 0, time.UTC)
		first := SlotsFor(w, date, now, 30)
		second := SlotsFor(w, date, now, 30)
		assert.Equal(t, first, second)
	})
}

func TestBookableDates(t *testing.T) {
	from := time.Date(2025, 6, 13, 15, 30, 0, 0, time.UTC)

	dates := BookableDates(from, 3)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), dates[2])

	assert.Nil(t, BookableDates(from, 0))
}

func TestRemainingCovers(t *testing.T) {
	w := lunchWindow()

	reservations := []model.Reservation{
		{Time: "12:00", PartySize: 10, Status: model.ReservationConfirmed},
		{Time: "13:30", PartySize: 6, Status: model.ReservationPending},
		{Time: "12:30", PartySize: 8, Status: model.ReservationCancelled}, // freed
		{Time: "20:00", PartySize: 4, Status: model.ReservationConfirmed}, // dinner, outside window
	}

	assert.Equal(t, 24, RemainingCovers(w, reservations))

	t.Run("Never negative", func(t *testing.T) {
		overbooked := []model.Reservation{
			{Time: "12:00", PartySize: 50, Status: model.ReservationConfirmed},
		}
		assert.Equal(t, 0, RemainingCovers(w, overbooked))
	})
}

func TestForDay(t *testing.T) {
	windows := []model.ServiceWindow{lunchWindow(), dinnerFriSat()}
	friday := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 13, 12, 45, 0, 0, time.UTC)

	day := ForDay(windows, nil, friday, now, 30)
	require.Len(t, day, 2)

	lunch := day[0]
	assert.Equal(t, WindowOpenNow, lunch.Status)
	assert.Equal(t, []string{"13:00", "13:30"}, lunch.Slots)
	assert.Equal(t, 40, lunch.RemainingCovers)

	dinner := day[1]
	assert.Equal(t, WindowOpenNow, dinner.Status)
	assert.Equal(t, "19:00", dinner.Slots[0])
}

func TestWindowForTime(t *testing.T) {
	windows := []model.ServiceWindow{lunchWindow(), dinnerFriSat()}
	friday := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	found := WindowForTime(windows, friday, clk(t, "13:00"))
	require.NotNil(t, found)
	assert.Equal(t, "Lunch", found.Name)

	// End bound is exclusive.
	assert.Nil(t, WindowForTime(windows, friday, clk(t, "14:00")))

	// Dinner does not apply on Wednesdays.
	wednesday := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, WindowForTime(windows, wednesday, clk(t, "20:00")))
}
