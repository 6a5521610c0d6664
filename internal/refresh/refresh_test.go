package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resto-suite-backend/config"
	"resto-suite-backend/internal/alert"
	"resto-suite-backend/internal/db"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/notification"
	"resto-suite-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.AutoMigrate(db.Models()...))
	return store.NewGormStore(gormDB)
}

func drainJobs(wp *notification.WorkerPool) []notification.Job {
	var jobs []notification.Job
	for {
		select {
		case j := <-wp.Jobs():
			jobs = append(jobs, j)
		default:
			return jobs
		}
	}
}

func TestRefreshOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	restaurant := model.Restaurant{Name: "Chez Test", Slug: "chez-test"}
	require.NoError(t, s.CreateRestaurant(ctx, &restaurant))

	// One fridge with no reading today: warning only, never pushed.
	fridge := model.Equipment{RestaurantID: restaurant.ID, Name: "Walk-in fridge", Kind: "fridge"}
	require.NoError(t, s.CreateEquipment(ctx, &fridge))

	// One item past its date: flipped to expired, then a critical alert.
	item := model.ShelfLifeItem{
		RestaurantID: restaurant.ID,
		ProductName:  "Cream",
		ExpiresOn:    time.Now().AddDate(0, 0, -2),
		Status:       model.ShelfLifeActive,
	}
	require.NoError(t, s.CreateShelfLifeItem(ctx, &item))

	cfg := &config.Config{}
	cfg.Refresh.Enabled = true
	cfg.Refresh.Interval = 15 * time.Second

	// Workers are intentionally not started; jobs queue in the channel.
	pool := notification.NewWorkerPool(8, s.DB(), &webpush.Options{})
	r := New(cfg, s, pool)

	r.RefreshOnce(ctx)

	snap, ok := r.Snapshot(restaurant.ID)
	require.True(t, ok)
	require.Len(t, snap.Report.Temperature, 1)
	assert.Equal(t, alert.SeverityWarning, snap.Report.Temperature[0].Severity)
	require.Len(t, snap.Report.DLC, 1)
	assert.Equal(t, alert.SeverityCritical, snap.Report.DLC[0].Severity)

	// The expiry sweep ran before derivation.
	var got model.ShelfLifeItem
	require.NoError(t, s.DB().First(&got, item.ID).Error)
	assert.Equal(t, model.ShelfLifeExpired, got.Status)

	// Only the newly-critical alert is pushed; the warning is not.
	jobs := drainJobs(pool)
	require.Len(t, jobs, 1)
	assert.Equal(t, restaurant.ID, jobs[0].RestaurantID)
	assert.Contains(t, jobs[0].Message, "Cream")

	t.Run("Unchanged criticals are not re-announced", func(t *testing.T) {
		r.RefreshOnce(ctx)
		assert.Empty(t, drainJobs(pool))
	})
}

func TestRefreshOnceUsesRestaurantDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// UTC+14: this restaurant's calendar day is ahead of the server's for
	// most of the day.
	restaurant := model.Restaurant{Name: "Chez Kiri", Slug: "chez-kiri", Timezone: "Pacific/Kiritimati"}
	require.NoError(t, s.CreateRestaurant(ctx, &restaurant))

	loc, err := time.LoadLocation("Pacific/Kiritimati")
	require.NoError(t, err)
	localNow := time.Now().In(loc)

	yesterday := model.ShelfLifeItem{
		RestaurantID: restaurant.ID,
		ProductName:  "Local yesterday",
		ExpiresOn:    localNow.AddDate(0, 0, -1),
		Status:       model.ShelfLifeActive,
	}
	require.NoError(t, s.CreateShelfLifeItem(ctx, &yesterday))
	today := model.ShelfLifeItem{
		RestaurantID: restaurant.ID,
		ProductName:  "Local today",
		ExpiresOn:    localNow,
		Status:       model.ShelfLifeActive,
	}
	require.NoError(t, s.CreateShelfLifeItem(ctx, &today))

	r := New(&config.Config{}, s, nil)
	r.RefreshOnce(ctx)

	// The expiry sweep ran against the restaurant's own midnight, not the
	// server's.
	var got model.ShelfLifeItem
	require.NoError(t, s.DB().First(&got, yesterday.ID).Error)
	assert.Equal(t, model.ShelfLifeExpired, got.Status)
	got = model.ShelfLifeItem{}
	require.NoError(t, s.DB().First(&got, today.ID).Error)
	assert.Equal(t, model.ShelfLifeActive, got.Status)

	snap, ok := r.Snapshot(restaurant.ID)
	require.True(t, ok)
	assert.Equal(t, loc.String(), snap.RefreshedAt.Location().String())
}

func TestApplyIfCurrentDiscardsStaleCycle(t *testing.T) {
	cfg := &config.Config{}
	r := New(cfg, nil, nil)

	stale := r.beginRefresh(1)
	fresh := r.beginRefresh(1)

	_, applied := r.applyIfCurrent(1, stale, Snapshot{RefreshedAt: time.Now()})
	assert.False(t, applied)

	_, applied = r.applyIfCurrent(1, fresh, Snapshot{RefreshedAt: time.Now()})
	assert.True(t, applied)

	_, ok := r.Snapshot(1)
	assert.True(t, ok)
}

func TestBuildReportIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	restaurant := model.Restaurant{Name: "Chez Test", Slug: "chez-test"}
	require.NoError(t, s.CreateRestaurant(ctx, &restaurant))

	task := model.CleaningTask{RestaurantID: restaurant.ID, PostName: "Grill", Frequency: "daily"}
	require.NoError(t, s.CreateCleaningTask(ctx, &task))

	now := time.Now()
	first, err := BuildReport(ctx, s, restaurant.ID, now)
	require.NoError(t, err)
	second, err := BuildReport(ctx, s, restaurant.ID, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Cleaning, 1)
}
