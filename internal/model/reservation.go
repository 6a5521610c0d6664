package model

import (
	"time"

	"github.com/google/uuid"
)

// Reservation statuses. Public booking creates rows as pending; staff move
// them through the rest of the lifecycle. Rows are never hard-deleted.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
	ReservationNoShow    = "no_show"
)

// reservationTransitions lists the allowed status moves.
var reservationTransitions = map[string][]string{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled, ReservationNoShow},
}

// ValidReservationTransition reports whether a reservation may move from one
// status to another. Terminal statuses have no outgoing transitions.
func ValidReservationTransition(from, to string) bool {
	for _, allowed := range reservationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Reservation is one booking request for a party on a given date and time.
type Reservation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID  int64     `gorm:"index;not null"`
	Date          time.Time `gorm:"type:date;index;not null"`
	Time          string    `gorm:"size:5;not null"`
	PartySize     int       `gorm:"not null"`
	CustomerName  string    `gorm:"size:128;not null"`
	CustomerPhone string    `gorm:"size:32"`
	CustomerEmail string    `gorm:"size:128"`
	Status        string    `gorm:"size:16;not null;default:pending"`
	TableID       *int64
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	// Associations
	Restaurant Restaurant   `gorm:"constraint:OnDelete:CASCADE"`
	Table      *DiningTable `gorm:"foreignKey:TableID"`
}
