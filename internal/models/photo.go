package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo represents an uploaded image. The file itself lives in S3-compatible
// object storage; this row stores its metadata and durable URL.
type Photo struct {
	ID          uuid.UUID `json:"id"`
	StorageKey  string    `json:"-"`
	URL         string    `json:"url"`
	Description *string   `json:"description,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tag is a label attached to photos. Names are stored lowercased so tag
// lookups are case-insensitive.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TransformedImage records one server-side transformation of a photo.
type TransformedImage struct {
	ID             uuid.UUID `json:"id"`
	PhotoID        uuid.UUID `json:"photo_id"`
	StorageKey     string    `json:"-"`
	TransformedURL string    `json:"transformed_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// QRCode is the stored QR image that links to a photo. At most one exists
// per photo; regeneration replaces it.
type QRCode struct {
	ID         uuid.UUID `json:"id"`
	PhotoID    uuid.UUID `json:"photo_id"`
	StorageKey string    `json:"-"`
	QRCodeURL  string    `json:"qr_code_url"`
	CreatedAt  time.Time `json:"created_at"`
}
