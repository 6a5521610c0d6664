package alert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-suite-backend/internal/model"
)

var now = time.Date(2025, 6, 14, 11, 0, 0, 0, time.UTC)

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fridge(id int64, name string) model.Equipment {
	return model.Equipment{ID: id, Name: name, Kind: "fridge", BoundMin: bound("0"), BoundMax: bound("4")}
}

func reading(equipmentID int64, value string, at time.Time) model.TemperatureReading {
	return model.TemperatureReading{EquipmentID: equipmentID, Value: decimal.RequireFromString(value), TakenAt: at}
}

func TestAggregateTemperature(t *testing.T) {
	in := Input{
		Equipment: []model.Equipment{
			fridge(1, "Walk-in fridge"),
			fridge(2, "Dessert fridge"),
			fridge(3, "Prep fridge"),
		},
		Readings: []model.TemperatureReading{
			reading(1, "3.5", now.Add(-2*time.Hour)),            // conforming
			reading(2, "9", now.Add(-1*time.Hour)),              // out of range
			reading(3, "2.0", now.AddDate(0, 0, -1)),            // yesterday, ignored
			reading(2, "2.0", now.Add(-6*time.Hour)),            // older than the 9°C one
		},
		Now: now,
	}

	report := Aggregate(in)
	require.Len(t, report.Temperature, 2)

	outOfRange := report.Temperature[0]
	assert.Equal(t, SeverityCritical, outOfRange.Severity)
	assert.Equal(t, int64(2), outOfRange.TargetID)
	assert.Contains(t, outOfRange.Message, "9")

	missing := report.Temperature[1]
	assert.Equal(t, SeverityWarning, missing.Severity)
	assert.Equal(t, int64(3), missing.TargetID)
}

func TestAggregateCleaningEscalation(t *testing.T) {
	task := func(id int64, name string) model.CleaningTask {
		return model.CleaningTask{ID: id, PostName: name, Frequency: "daily"}
	}

	t.Run("Backlog at threshold stays warning", func(t *testing.T) {
		in := Input{
			Tasks: []model.CleaningTask{task(1, "Pass"), task(2, "Grill"), task(3, "Cold room")},
			Now:   now,
		}
		report := Aggregate(in)
		require.Len(t, report.Cleaning, 3)
		for _, a := range report.Cleaning {
			assert.Equal(t, SeverityWarning, a.Severity)
		}
	})

	t.Run("Backlog past threshold escalates whole category", func(t *testing.T) {
		in := Input{
			Tasks: []model.CleaningTask{task(1, "Pass"), task(2, "Grill"), task(3, "Cold room"), task(4, "Floor")},
			Now:   now,
		}
		report := Aggregate(in)
		require.Len(t, report.Cleaning, 4)
		for _, a := range report.Cleaning {
			assert.Equal(t, SeverityCritical, a.Severity)
		}
	})

	t.Run("On demand tasks never appear", func(t *testing.T) {
		in := Input{
			Tasks: []model.CleaningTask{{ID: 9, PostName: "Deep clean", Frequency: "on_demand"}},
			Now:   now,
		}
		assert.Empty(t, Aggregate(in).Cleaning)
	})
}

func TestAggregateShelfLife(t *testing.T) {
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	in := Input{
		ShelfItems: []model.ShelfLifeItem{
			{ID: 1, ProductName: "Cream", ExpiresOn: day(-1), Status: model.ShelfLifeActive},  // expired
			{ID: 2, ProductName: "Salmon", ExpiresOn: day(0), Status: model.ShelfLifeActive},  // today
			{ID: 3, ProductName: "Terrine", ExpiresOn: day(2), Status: model.ShelfLifeActive}, // warning
			{ID: 4, ProductName: "Stock", ExpiresOn: day(5), Status: model.ShelfLifeActive},   // fine
			{ID: 5, ProductName: "Butter", ExpiresOn: day(-3), Status: model.ShelfLifeUsed},   // already handled
		},
		Now: now,
	}

	report := Aggregate(in)
	require.Len(t, report.DLC, 3)

	assert.Equal(t, SeverityCritical, report.DLC[0].Severity)
	assert.Contains(t, report.DLC[0].Message, "expired")
	assert.Equal(t, SeverityCritical, report.DLC[1].Severity)
	assert.Equal(t, SeverityWarning, report.DLC[2].Severity)
}

func TestAggregateIdempotent(t *testing.T) {
	in := Input{
		Equipment:  []model.Equipment{fridge(1, "Walk-in fridge")},
		Tasks:      []model.CleaningTask{{ID: 1, PostName: "Pass", Frequency: "daily"}},
		ShelfItems: []model.ShelfLifeItem{{ID: 1, ProductName: "Cream", ExpiresOn: now, Status: model.ShelfLifeActive}},
		Now:        now,
	}

	first := Aggregate(in)
	second := Aggregate(in)
	assert.Equal(t, first, second)
}

func TestNextUnresolved(t *testing.T) {
	alerts := []Alert{
		{Category: CategoryTemperature, TargetID: 1},
		{Category: CategoryCleaning, TargetID: 1},
		{Category: CategoryDLC, TargetID: 7},
	}

	next := NextUnresolved(alerts, nil)
	require.NotNil(t, next)
	assert.Equal(t, CategoryTemperature, next.Category)

	// Same target id in a different category is a different alert.
	resolved := map[string]bool{"temperature:1": true}
	next = NextUnresolved(alerts, resolved)
	require.NotNil(t, next)
	assert.Equal(t, CategoryCleaning, next.Category)

	resolved["cleaning:1"] = true
	resolved["dlc:7"] = true
	assert.Nil(t, NextUnresolved(alerts, resolved))
}

func TestCriticalKeys(t *testing.T) {
	r := Report{
		Temperature: []Alert{{Category: CategoryTemperature, Severity: SeverityCritical, TargetID: 2}},
		Cleaning:    []Alert{{Category: CategoryCleaning, Severity: SeverityWarning, TargetID: 1}},
	}
	keys := r.CriticalKeys()
	assert.Len(t, keys, 1)
	assert.Contains(t, keys, "temperature:2")
}
