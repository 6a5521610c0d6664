package model

import "time"

// PushSubscription holds a staff browser push subscription. Critical alerts
// for the restaurant are fanned out to every subscription scoped to it.
type PushSubscription struct {
	Endpoint     string    `gorm:"primaryKey"`
	P256DH       string    `gorm:"column:p256dh;not null"`
	Auth         string    `gorm:"not null"`
	RestaurantID int64     `gorm:"index;not null"`
	CreatedAt    time.Time `gorm:"not null"`

	// Associations
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE"`
}
