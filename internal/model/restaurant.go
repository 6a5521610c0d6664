package model

import "time"

// Restaurant represents a tenant. Every other domain row is scoped by RestaurantID.
type Restaurant struct {
	ID                 int64  `gorm:"primaryKey"`
	Name               string `gorm:"size:128;not null"`
	Slug               string `gorm:"uniqueIndex;size:64;not null"`
	Timezone           string `gorm:"size:64"`
	AdvanceBookingDays int
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`

	// Associations
	Equipment      []Equipment     `gorm:"foreignKey:RestaurantID"`
	ServiceWindows []ServiceWindow `gorm:"foreignKey:RestaurantID"`
}
