package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a short text note left by a user on a photo.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	UserID    uuid.UUID `json:"user_id"`
	PhotoID   uuid.UUID `json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is a single 1-5 score a user gave a photo. A user may rate a
// given photo at most once and never their own.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	PhotoID   uuid.UUID `json:"photo_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
