package model

import "time"

// Shelf-life item statuses. Items leave "active" only through an explicit
// action event; rows are never hard-deleted.
const (
	ShelfLifeActive    = "active"
	ShelfLifeUsed      = "used"
	ShelfLifeDiscarded = "discarded"
	ShelfLifeExpired   = "expired"
)

// Shelf-life action event types.
const (
	ShelfLifeActionUsed      = "used"
	ShelfLifeActionDiscarded = "discarded"
	ShelfLifeActionExtended  = "extended"
	ShelfLifeActionMoved     = "moved"
)

// ShelfLifeItem is a labelled product with a use-by date (DLC).
// Days remaining and the derived severity are computed on read.
type ShelfLifeItem struct {
	ID           int64     `gorm:"primaryKey"`
	RestaurantID int64     `gorm:"index;not null"`
	ProductName  string    `gorm:"size:128;not null"`
	OpenedOn     time.Time `gorm:"type:date;not null"`
	ExpiresOn    time.Time `gorm:"type:date;not null"`
	PhotoURL     string    `gorm:"size:512"`
	Status       string    `gorm:"size:16;not null;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE"`
}

// ShelfLifeEvent logs one action applied to an item (cold table). Every
// mutation of a ShelfLifeItem goes through exactly one event row.
type ShelfLifeEvent struct {
	ID         int64     `gorm:"autoIncrement;primaryKey"`
	ItemID     int64     `gorm:"index;not null"`
	Action     string    `gorm:"size:16;not null"`
	OccurredAt time.Time `gorm:"not null"`
	Note       string    `gorm:"size:256"`

	// Associations
	Item ShelfLifeItem `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}
