package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equipment represents a temperature-monitored unit (fridge, freezer, hot hold).
// Nil bounds mean the side is unbounded; a misconfigured unit never blocks
// status derivation.
type Equipment struct {
	ID           int64            `gorm:"primaryKey"`
	RestaurantID int64            `gorm:"index;not null"`
	Name         string           `gorm:"size:128;not null"`
	Kind         string           `gorm:"size:32;not null"`
	BoundMin     *decimal.Decimal `gorm:"type:numeric(5,2)"`
	BoundMax     *decimal.Decimal `gorm:"type:numeric(5,2)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE"`
}
