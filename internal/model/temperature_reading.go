package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemperatureReading is one logged measurement for a piece of equipment.
// Readings are append-only; conformity is derived on read, never stored.
type TemperatureReading struct {
	ID          int64           `gorm:"autoIncrement;primaryKey"`
	EquipmentID int64           `gorm:"index;not null"`
	Value       decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	TakenAt     time.Time       `gorm:"index;not null"`
	PhotoURL    string          `gorm:"size:512"`
	CreatedAt   time.Time       `gorm:"not null"`

	// Associations
	Equipment Equipment `gorm:"constraint:OnDelete:CASCADE"`
}
