package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resto-suite-backend/internal/model"
)

// Store defines the interface for all database operations. Every domain
// method is scoped by restaurant; callers never see another tenant's rows.
type Store interface {
	DB() *gorm.DB

	GetRestaurant(ctx context.Context, id int64) (model.Restaurant, error)
	GetRestaurantBySlug(ctx context.Context, slug string) (model.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	CreateRestaurant(ctx context.Context, r *model.Restaurant) error

	ListEquipment(ctx context.Context, restaurantID int64) ([]model.Equipment, error)
	GetEquipment(ctx context.Context, restaurantID, id int64) (model.Equipment, error)
	CreateEquipment(ctx context.Context, eq *model.Equipment) error

	ListReadingsOn(ctx context.Context, restaurantID int64, day time.Time) ([]model.TemperatureReading, error)
	CreateReading(ctx context.Context, r *model.TemperatureReading) error

	ListCleaningTasks(ctx context.Context, restaurantID int64) ([]model.CleaningTask, error)
	GetCleaningTask(ctx context.Context, restaurantID, taskID int64) (model.CleaningTask, error)
	CreateCleaningTask(ctx context.Context, t *model.CleaningTask) error
	CompleteCleaningTask(ctx context.Context, taskID int64, done CleaningDone) error

	ListShelfLifeItems(ctx context.Context, restaurantID int64, openOnly bool) ([]model.ShelfLifeItem, error)
	GetShelfLifeItem(ctx context.Context, restaurantID, itemID int64) (model.ShelfLifeItem, error)
	CreateShelfLifeItem(ctx context.Context, item *model.ShelfLifeItem) error
	ApplyShelfLifeAction(ctx context.Context, itemID int64, action ShelfLifeAction) error
	MarkExpiredShelfLifeItems(ctx context.Context, restaurantID int64, today time.Time) (int64, error)

	ListServiceWindows(ctx context.Context, restaurantID int64) ([]model.ServiceWindow, error)
	CreateServiceWindow(ctx context.Context, w *model.ServiceWindow) error

	ListTables(ctx context.Context, restaurantID int64) ([]model.DiningTable, error)
	CreateTable(ctx context.Context, t *model.DiningTable) error

	ListReservationsOn(ctx context.Context, restaurantID int64, date time.Time) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, to string) error

	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context, restaurantID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for migrations and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Restaurants ---

func (s *gormStore) GetRestaurant(ctx context.Context, id int64) (model.Restaurant, error) {
	var r model.Restaurant
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return model.Restaurant{}, translate(err)
	}
	return r, nil
}

func (s *gormStore) GetRestaurantBySlug(ctx context.Context, slug string) (model.Restaurant, error) {
	var r model.Restaurant
	if err := s.db.WithContext(ctx).First(&r, "slug = ?", slug).Error; err != nil {
		return model.Restaurant{}, translate(err)
	}
	return r, nil
}

func (s *gormStore) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	var out []model.Restaurant
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) CreateRestaurant(ctx context.Context, r *model.Restaurant) error {
	return s.db.WithContext(ctx).Create(r).Error
}

// --- Equipment & readings ---

func (s *gormStore) ListEquipment(ctx context.Context, restaurantID int64) ([]model.Equipment, error) {
	var out []model.Equipment
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetEquipment is tenant-scoped: a unit belonging to another restaurant is
// ErrNotFound, not a leak.
func (s *gormStore) GetEquipment(ctx context.Context, restaurantID, id int64) (model.Equipment, error) {
	var eq model.Equipment
	if err := s.db.WithContext(ctx).First(&eq, "id = ? AND restaurant_id = ?", id, restaurantID).Error; err != nil {
		return model.Equipment{}, translate(err)
	}
	return eq, nil
}

func (s *gormStore) CreateEquipment(ctx context.Context, eq *model.Equipment) error {
	return s.db.WithContext(ctx).Create(eq).Error
}

// ListReadingsOn returns the restaurant's readings for one calendar day,
// oldest first. The day is interpreted in the instant's own location.
func (s *gormStore) ListReadingsOn(ctx context.Context, restaurantID int64, day time.Time) ([]model.TemperatureReading, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []model.TemperatureReading
	err := s.db.WithContext(ctx).
		Joins("JOIN equipment ON equipment.id = temperature_readings.equipment_id").
		Where("equipment.restaurant_id = ? AND temperature_readings.taken_at >= ? AND temperature_readings.taken_at < ?",
			restaurantID, dayStart, dayEnd).
		Order("temperature_readings.taken_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) CreateReading(ctx context.Context, r *model.TemperatureReading) error {
	return s.db.WithContext(ctx).Create(r).Error
}

// --- Cleaning ---

func (s *gormStore) ListCleaningTasks(ctx context.Context, restaurantID int64) ([]model.CleaningTask, error) {
	var out []model.CleaningTask
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) GetCleaningTask(ctx context.Context, restaurantID, taskID int64) (model.CleaningTask, error) {
	var task model.CleaningTask
	if err := s.db.WithContext(ctx).First(&task, "id = ? AND restaurant_id = ?", taskID, restaurantID).Error; err != nil {
		return model.CleaningTask{}, translate(err)
	}
	return task, nil
}

func (s *gormStore) CreateCleaningTask(ctx context.Context, t *model.CleaningTask) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// CompleteCleaningTask stamps the task and logs the completion in one
// transaction, so a failed write never leaves the two out of step.
func (s *gormStore) CompleteCleaningTask(ctx context.Context, taskID int64, done CleaningDone) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.CleaningTask
		if err := tx.First(&task, taskID).Error; err != nil {
			return translate(err)
		}

		if err := tx.Model(&task).Update("last_completed_at", done.CompletedAt).Error; err != nil {
			return fmt.Errorf("failed to stamp cleaning task %d: %w", taskID, err)
		}

		completion := model.CleaningCompletion{
			TaskID:      taskID,
			CompletedAt: done.CompletedAt,
			CompletedBy: done.CompletedBy,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return fmt.Errorf("failed to log cleaning completion for task %d: %w", taskID, err)
		}
		return nil
	})
}

// --- Shelf life ---

func (s *gormStore) ListShelfLifeItems(ctx context.Context, restaurantID int64, openOnly bool) ([]model.ShelfLifeItem, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if openOnly {
		q = q.Where("status IN ?", []string{model.ShelfLifeActive, model.ShelfLifeExpired})
	}

	var out []model.ShelfLifeItem
	if err := q.Order("expires_on, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) GetShelfLifeItem(ctx context.Context, restaurantID, itemID int64) (model.ShelfLifeItem, error) {
	var item model.ShelfLifeItem
	if err := s.db.WithContext(ctx).First(&item, "id = ? AND restaurant_id = ?", itemID, restaurantID).Error; err != nil {
		return model.ShelfLifeItem{}, translate(err)
	}
	return item, nil
}

func (s *gormStore) CreateShelfLifeItem(ctx context.Context, item *model.ShelfLifeItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// ApplyShelfLifeAction mutates an item through exactly one logged event.
// The event row and the item update commit together or not at all.
func (s *gormStore) ApplyShelfLifeAction(ctx context.Context, itemID int64, action ShelfLifeAction) error {
	updates := map[string]any{}
	switch action.Action {
	case model.ShelfLifeActionUsed:
		updates["status"] = model.ShelfLifeUsed
	case model.ShelfLifeActionDiscarded:
		updates["status"] = model.ShelfLifeDiscarded
	case model.ShelfLifeActionExtended:
		if action.NewExpiresOn == nil {
			return fmt.Errorf("%w: extended requires a new expiry date", ErrUnknownAction)
		}
		updates["status"] = model.ShelfLifeActive
		updates["expires_on"] = *action.NewExpiresOn
	case model.ShelfLifeActionMoved:
		// Location changes are pure log entries; the item row is untouched.
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Action)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.ShelfLifeItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return translate(err)
		}

		event := model.ShelfLifeEvent{
			ItemID:     itemID,
			Action:     action.Action,
			OccurredAt: action.OccurredAt,
			Note:       action.Note,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to log shelf-life event for item %d: %w", itemID, err)
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update shelf-life item %d: %w", itemID, err)
		}
		return nil
	})
}

// MarkExpiredShelfLifeItems flips one restaurant's active items past their
// use-by date to expired. Run by the background refresher against the
// restaurant's own calendar day; the only automated status write in the
// system.
func (s *gormStore) MarkExpiredShelfLifeItems(ctx context.Context, restaurantID int64, today time.Time) (int64, error) {
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	res := s.db.WithContext(ctx).
		Model(&model.ShelfLifeItem{}).
		Where("restaurant_id = ? AND status = ? AND expires_on < ?", restaurantID, model.ShelfLifeActive, dayStart).
		Update("status", model.ShelfLifeExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark expired shelf-life items: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// --- Service windows & tables ---

func (s *gormStore) ListServiceWindows(ctx context.Context, restaurantID int64) ([]model.ServiceWindow, error) {
	var out []model.ServiceWindow
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("start_time, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) CreateServiceWindow(ctx context.Context, w *model.ServiceWindow) error {
	return s.db.WithContext(ctx).Create(w).Error
}

func (s *gormStore) ListTables(ctx context.Context, restaurantID int64) ([]model.DiningTable, error) {
	var out []model.DiningTable
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) CreateTable(ctx context.Context, t *model.DiningTable) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// --- Reservations ---

func (s *gormStore) ListReservationsOn(ctx context.Context, restaurantID int64, date time.Time) ([]model.Reservation, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []model.Reservation
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND date >= ? AND date < ?", restaurantID, dayStart, dayEnd).
		Order("time, created_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) GetReservation(ctx context.Context, id uuid.UUID) (model.Reservation, error) {
	var r model.Reservation
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return model.Reservation{}, translate(err)
	}
	return r, nil
}

func (s *gormStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = model.ReservationPending
	}
	return s.db.WithContext(ctx).Create(r).Error
}

// UpdateReservationStatus validates the lifecycle transition against the row
// as read inside the transaction. Concurrent edits are not detected; the last
// write wins.
func (s *gormStore) UpdateReservationStatus(ctx context.Context, id uuid.UUID, to string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r model.Reservation
		if err := tx.First(&r, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		if !model.ValidReservationTransition(r.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
		}

		if err := tx.Model(&r).Update("status", to).Error; err != nil {
			return fmt.Errorf("failed to update reservation %s: %w", id, err)
		}
		return nil
	})
}

// --- Subscriptions ---

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "restaurant_id"}),
	}).Create(sub).Error
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return model.PushSubscription{}, translate(err)
	}
	return sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) ListSubscriptions(ctx context.Context, restaurantID int64) ([]model.PushSubscription, error) {
	var out []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
