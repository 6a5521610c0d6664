package store

import (
	"errors"
	"time"
)

// Sentinel errors surfaced to handlers so they can map failures to status
// codes without inspecting gorm internals.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownAction     = errors.New("unknown shelf-life action")
)

// ShelfLifeAction describes one explicit action applied to a shelf-life item.
// Extended actions carry the replacement expiry date; other actions leave
// NewExpiresOn nil.
type ShelfLifeAction struct {
	Action       string
	OccurredAt   time.Time
	Note         string
	NewExpiresOn *time.Time
}

// CleaningDone records one completed cleaning of a post.
type CleaningDone struct {
	CompletedAt time.Time
	CompletedBy string
}
