package refresh

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"resto-suite-backend/config"
	"resto-suite-backend/internal/alert"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/notification"
	"resto-suite-backend/internal/store"
)

// Snapshot is the latest derived alert report for one restaurant.
type Snapshot struct {
	Report      alert.Report `json:"report"`
	RefreshedAt time.Time    `json:"refreshed_at"`
}

// Refresher recomputes every restaurant's alert report on a fixed interval.
// Statuses are always re-derived from rows plus the current instant; the
// snapshot is a staleness buffer for the dashboard, never a source of truth.
// The scheduler is owned by the Refresher and torn down from Stop.
type Refresher struct {
	cfg       *config.Config
	store     store.Store
	pool      *notification.WorkerPool
	scheduler *gocron.Scheduler

	mu         sync.RWMutex
	snapshots  map[int64]Snapshot
	generation map[int64]uint64
}

// New creates a Refresher. The worker pool may be nil when push is disabled.
func New(cfg *config.Config, s store.Store, pool *notification.WorkerPool) *Refresher {
	return &Refresher{
		cfg:        cfg,
		store:      s,
		pool:       pool,
		snapshots:  make(map[int64]Snapshot),
		generation: make(map[int64]uint64),
	}
}

// Start schedules the periodic refresh. Runs are singleton per job: a cycle
// still in flight is never overlapped by the next tick.
func (r *Refresher) Start(ctx context.Context) error {
	if !r.cfg.Refresh.Enabled {
		log.Println("Dashboard refresh is disabled. Not starting.")
		return nil
	}

	r.scheduler = gocron.NewScheduler(time.UTC)
	r.scheduler.SingletonModeAll()
	if _, err := r.scheduler.Every(r.cfg.Refresh.Interval).Do(func() {
		r.RefreshOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	r.scheduler.StartAsync()

	log.Printf("Dashboard refresh scheduled every %s", r.cfg.Refresh.Interval)
	return nil
}

// Stop halts the scheduler and waits for a running cycle to finish.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}

// Snapshot returns the latest report for a restaurant, if one was computed.
func (r *Refresher) Snapshot(restaurantID int64) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.snapshots[restaurantID]
	return snap, ok
}

// location resolves a restaurant's timezone, falling back to the configured
// default. All "today" maths for the restaurant run in this location; a
// snapshot must agree with an on-demand derivation for the same tenant.
func (r *Refresher) location(restaurant model.Restaurant) *time.Location {
	tz := restaurant.Timezone
	if tz == "" {
		tz = r.cfg.Booking.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RefreshOnce performs a single refresh cycle over every restaurant, each in
// its own local calendar day.
func (r *Refresher) RefreshOnce(ctx context.Context) {
	restaurants, err := r.store.ListRestaurants(ctx)
	if err != nil {
		log.Printf("Error listing restaurants for refresh: %v", err)
		return
	}

	for _, restaurant := range restaurants {
		now := time.Now().In(r.location(restaurant))

		// Flip items past their use-by date before deriving alerts, so the
		// dashboard and the derived report agree on status.
		if n, err := r.store.MarkExpiredShelfLifeItems(ctx, restaurant.ID, now); err != nil {
			log.Printf("Error marking expired shelf-life items for restaurant %d: %v", restaurant.ID, err)
		} else if n > 0 {
			log.Printf("Marked %d shelf-life item(s) expired for restaurant %d", n, restaurant.ID)
		}

		gen := r.beginRefresh(restaurant.ID)

		report, err := BuildReport(ctx, r.store, restaurant.ID, now)
		if err != nil {
			log.Printf("Error building alert report for restaurant %d: %v", restaurant.ID, err)
			continue
		}

		previous, applied := r.applyIfCurrent(restaurant.ID, gen, Snapshot{Report: report, RefreshedAt: now})
		if !applied {
			// A newer cycle started while this one was fetching; its
			// result wins and this one is discarded.
			continue
		}

		r.notifyNewCriticals(restaurant.ID, previous.Report, report)
	}
}

// BuildReport fetches one restaurant's rows and derives its alert report.
// Shared with the API layer for on-demand computation.
func BuildReport(ctx context.Context, s store.Store, restaurantID int64, now time.Time) (alert.Report, error) {
	equipment, err := s.ListEquipment(ctx, restaurantID)
	if err != nil {
		return alert.Report{}, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	readings, err := s.ListReadingsOn(ctx, restaurantID, now)
	if err != nil {
		return alert.Report{}, fmt.Errorf("failed to fetch readings: %w", err)
	}
	tasks, err := s.ListCleaningTasks(ctx, restaurantID)
	if err != nil {
		return alert.Report{}, fmt.Errorf("failed to fetch cleaning tasks: %w", err)
	}
	items, err := s.ListShelfLifeItems(ctx, restaurantID, true)
	if err != nil {
		return alert.Report{}, fmt.Errorf("failed to fetch shelf-life items: %w", err)
	}

	return alert.Aggregate(alert.Input{
		Equipment:  equipment,
		Readings:   readings,
		Tasks:      tasks,
		ShelfItems: items,
		Now:        now,
	}), nil
}

// beginRefresh bumps the restaurant's generation and returns it.
func (r *Refresher) beginRefresh(restaurantID int64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation[restaurantID]++
	return r.generation[restaurantID]
}

// applyIfCurrent installs the snapshot unless a newer cycle has started
// since gen was taken. Returns the snapshot it replaced.
func (r *Refresher) applyIfCurrent(restaurantID int64, gen uint64, snap Snapshot) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation[restaurantID] != gen {
		return Snapshot{}, false
	}
	previous := r.snapshots[restaurantID]
	r.snapshots[restaurantID] = snap
	return previous, true
}

// notifyNewCriticals dispatches one push job per alert that turned critical
// since the previous snapshot. Keyed by category+target, so an alert that
// stays critical across cycles is announced once.
func (r *Refresher) notifyNewCriticals(restaurantID int64, previous, current alert.Report) {
	if r.pool == nil {
		return
	}

	seen := previous.CriticalKeys()
	for key, a := range current.CriticalKeys() {
		if _, ok := seen[key]; ok {
			continue
		}
		r.pool.Dispatch(notification.Job{RestaurantID: restaurantID, Message: a.Message})
	}
}
