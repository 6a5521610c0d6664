package model

import "time"

// CleaningTask tracks the cleaning plan for one post (workstation or zone).
// Whether the post currently needs action is computed from Frequency and
// LastCompletedAt, never stored.
type CleaningTask struct {
	ID              int64  `gorm:"primaryKey"`
	RestaurantID    int64  `gorm:"index;not null"`
	PostName        string `gorm:"size:128;not null"`
	Frequency       string `gorm:"size:16;not null"`
	LastCompletedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Associations
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE"`
}

// CleaningCompletion is the historical log of completed cleanings (cold table).
type CleaningCompletion struct {
	ID          int64     `gorm:"autoIncrement;primaryKey"`
	TaskID      int64     `gorm:"index;not null"`
	CompletedAt time.Time `gorm:"not null"`
	CompletedBy string    `gorm:"size:128"`

	// Associations
	Task CleaningTask `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
