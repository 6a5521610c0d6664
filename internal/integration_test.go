package internal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resto-suite-backend/config"
	"resto-suite-backend/internal/alert"
	"resto-suite-backend/internal/db"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/notification"
	"resto-suite-backend/internal/refresh"
	"resto-suite-backend/internal/store"
)

// TestComplianceLifecycle walks one restaurant through a full dashboard
// cycle: open alerts, staff resolving them, and a new critical being pushed
// to the notification pool.
func TestComplianceLifecycle(t *testing.T) {
	// --- Test Setup ---

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	// A second pooled connection would see its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, testDB.AutoMigrate(db.Models()...))

	appStore := store.NewGormStore(testDB)
	ctx := context.Background()

	// The pool is created but never started: dispatched jobs stay in the
	// channel where the test can observe them.
	pool := notification.NewWorkerPool(4, testDB, nil)
	refresher := refresh.New(&config.Config{}, appStore, pool)

	// Seed one restaurant with a fridge, a daily cleaning task and an opened
	// product.
	restaurant := model.Restaurant{Name: "Chez Int", Slug: "chez-int", Timezone: "UTC"}
	require.NoError(t, appStore.CreateRestaurant(ctx, &restaurant))

	min := decimal.NewFromInt(0)
	max := decimal.NewFromInt(4)
	fridge := model.Equipment{RestaurantID: restaurant.ID, Name: "Walk-in", Kind: "fridge", BoundMin: &min, BoundMax: &max}
	require.NoError(t, appStore.CreateEquipment(ctx, &fridge))

	task := model.CleaningTask{RestaurantID: restaurant.ID, PostName: "Plonge", Frequency: "daily"}
	require.NoError(t, appStore.CreateCleaningTask(ctx, &task))

	now := time.Now().UTC()
	cream := model.ShelfLifeItem{
		RestaurantID: restaurant.ID,
		ProductName:  "Cream",
		OpenedOn:     now,
		ExpiresOn:    now.AddDate(0, 0, 2),
		Status:       model.ShelfLifeActive,
	}
	require.NoError(t, appStore.CreateShelfLifeItem(ctx, &cream))

	// --- Cycle 1: everything is pending, nothing is critical ---
	t.Run("Cycle 1: Open Warnings", func(t *testing.T) {
		refresher.RefreshOnce(ctx)

		snap, ok := refresher.Snapshot(restaurant.ID)
		require.True(t, ok, "Expected a snapshot after the first cycle")

		require.Len(t, snap.Report.Temperature, 1, "Fridge without a reading today should alert")
		assert.Equal(t, alert.SeverityWarning, snap.Report.Temperature[0].Severity)
		require.Len(t, snap.Report.Cleaning, 1, "Never-completed daily task should alert")
		assert.Equal(t, alert.SeverityWarning, snap.Report.Cleaning[0].Severity)
		require.Len(t, snap.Report.DLC, 1, "Product expiring in 2 days should alert")
		assert.Equal(t, alert.SeverityWarning, snap.Report.DLC[0].Severity)

		assert.Empty(t, pool.Jobs(), "Warnings must not be pushed")
	})

	// --- Cycle 2: staff resolves every alert ---
	t.Run("Cycle 2: Staff Resolves", func(t *testing.T) {
		reading := model.TemperatureReading{EquipmentID: fridge.ID, Value: decimal.NewFromFloat(3.5), TakenAt: time.Now().UTC()}
		require.NoError(t, appStore.CreateReading(ctx, &reading))
		require.NoError(t, appStore.CompleteCleaningTask(ctx, task.ID, store.CleaningDone{CompletedAt: time.Now().UTC(), CompletedBy: "Ana"}))
		require.NoError(t, appStore.ApplyShelfLifeAction(ctx, cream.ID, store.ShelfLifeAction{Action: model.ShelfLifeActionUsed, OccurredAt: time.Now().UTC()}))

		refresher.RefreshOnce(ctx)

		snap, _ := refresher.Snapshot(restaurant.ID)
		assert.Empty(t, snap.Report.All(), "All alerts should clear after resolution")
	})

	// --- Cycle 3: a critical appears and is pushed ---
	t.Run("Cycle 3: New Criticals Are Pushed", func(t *testing.T) {
		// 9°C against a 0-4 band: more than 3 degrees out, so critical.
		bad := model.TemperatureReading{EquipmentID: fridge.ID, Value: decimal.NewFromInt(9), TakenAt: time.Now().UTC()}
		require.NoError(t, appStore.CreateReading(ctx, &bad))

		// An active product already past its date gets flipped to expired by
		// the refresh cycle itself.
		forgotten := model.ShelfLifeItem{
			RestaurantID: restaurant.ID,
			ProductName:  "Terrine",
			OpenedOn:     time.Now().UTC().AddDate(0, 0, -5),
			ExpiresOn:    time.Now().UTC().AddDate(0, 0, -1),
			Status:       model.ShelfLifeActive,
		}
		require.NoError(t, appStore.CreateShelfLifeItem(ctx, &forgotten))

		refresher.RefreshOnce(ctx)

		var flipped model.ShelfLifeItem
		require.NoError(t, testDB.First(&flipped, forgotten.ID).Error)
		assert.Equal(t, model.ShelfLifeExpired, flipped.Status, "Past-date item should be marked expired")

		snap, _ := refresher.Snapshot(restaurant.ID)
		require.Len(t, snap.Report.Temperature, 1)
		assert.Equal(t, alert.SeverityCritical, snap.Report.Temperature[0].Severity)
		require.Len(t, snap.Report.DLC, 1)
		assert.Equal(t, alert.SeverityCritical, snap.Report.DLC[0].Severity)

		require.Len(t, pool.Jobs(), 2, "Both new criticals should be dispatched")
		for i := 0; i < 2; i++ {
			job := <-pool.Jobs()
			assert.Equal(t, restaurant.ID, job.RestaurantID)
		}
	})

	// --- Cycle 4: persisting criticals are not re-announced ---
	t.Run("Cycle 4: No Duplicate Pushes", func(t *testing.T) {
		refresher.RefreshOnce(ctx)

		snap, _ := refresher.Snapshot(restaurant.ID)
		require.Len(t, snap.Report.Temperature, 1, "Critical reading still stands")
		assert.Empty(t, pool.Jobs(), "Unchanged criticals must not be dispatched again")
	})
}
