package model

import (
	"time"

	"gorm.io/datatypes"
)

// ServiceWindow is a recurring seating period (e.g. lunch, dinner). Times are
// stored as "HH:MM" strings; DaysOfWeek holds weekday numbers 0 (Sunday)
// through 6. A window is not tied to a date until evaluated against one.
type ServiceWindow struct {
	ID           int64                    `gorm:"primaryKey"`
	RestaurantID int64                    `gorm:"index;not null"`
	Name         string                   `gorm:"size:64;not null"`
	StartTime    string                   `gorm:"size:5;not null"`
	EndTime      string                   `gorm:"size:5;not null"`
	DaysOfWeek   datatypes.JSONSlice[int] `gorm:"not null"`
	MaxCovers    int                      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE"`
}

// DiningTable is a bookable table. Reservations may optionally be pinned to one.
type DiningTable struct {
	ID           int64  `gorm:"primaryKey"`
	RestaurantID int64  `gorm:"index;not null"`
	Name         string `gorm:"size:64;not null"`
	Seats        int    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE"`
}
