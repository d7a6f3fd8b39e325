package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"photoshare/internal/models"
)

// TransformedImageStore handles rows recording server-side photo
// transformations.
type TransformedImageStore struct {
	db *sql.DB
}

// NewTransformedImageStore creates a store with the given database connection.
func NewTransformedImageStore(db *sql.DB) *TransformedImageStore {
	return &TransformedImageStore{db: db}
}

const transformedColumns = `id, photo_id, storage_key, transformed_url, created_at`

// Create records a transformed image for a photo.
func (s *TransformedImageStore) Create(photoID uuid.UUID, storageKey, url string) (*models.TransformedImage, error) {
	var t models.TransformedImage
	err := s.db.QueryRow(`
		INSERT INTO transformed_images (photo_id, storage_key, transformed_url)
		VALUES ($1, $2, $3)
		RETURNING `+transformedColumns,
		photoID, storageKey, url,
	).Scan(&t.ID, &t.PhotoID, &t.StorageKey, &t.TransformedURL, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create transformed image: %w", err)
	}
	return &t, nil
}

// ListByPhoto returns a photo's transformed images, newest first.
func (s *TransformedImageStore) ListByPhoto(photoID uuid.UUID) ([]models.TransformedImage, error) {
	rows, err := s.db.Query(`
		SELECT `+transformedColumns+`
		FROM transformed_images
		WHERE photo_id = $1
		ORDER BY created_at DESC, id
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("list transformed images: %w", err)
	}
	defer rows.Close()

	var items []models.TransformedImage
	for rows.Next() {
		var t models.TransformedImage
		if err := rows.Scan(&t.ID, &t.PhotoID, &t.StorageKey, &t.TransformedURL, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transformed image: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// QRCodeStore handles the one-QR-per-photo table.
type QRCodeStore struct {
	db *sql.DB
}

// NewQRCodeStore creates a store with the given database connection.
func NewQRCodeStore(db *sql.DB) *QRCodeStore {
	return &QRCodeStore{db: db}
}

const qrColumns = `id, photo_id, storage_key, qr_code_url, created_at`

// Upsert stores the QR code for a photo, replacing any previous one.
func (s *QRCodeStore) Upsert(photoID uuid.UUID, storageKey, url string) (*models.QRCode, error) {
	var q models.QRCode
	err := s.db.QueryRow(`
		INSERT INTO qr_codes (photo_id, storage_key, qr_code_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (photo_id) DO UPDATE
			SET storage_key = EXCLUDED.storage_key,
			    qr_code_url = EXCLUDED.qr_code_url,
			    created_at = NOW()
		RETURNING `+qrColumns,
		photoID, storageKey, url,
	).Scan(&q.ID, &q.PhotoID, &q.StorageKey, &q.QRCodeURL, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert qr code: %w", err)
	}
	return &q, nil
}

// FindByPhoto retrieves the QR code for a photo. Returns nil if none exists.
func (s *QRCodeStore) FindByPhoto(photoID uuid.UUID) (*models.QRCode, error) {
	var q models.QRCode
	err := s.db.QueryRow(`SELECT `+qrColumns+` FROM qr_codes WHERE photo_id = $1`, photoID).
		Scan(&q.ID, &q.PhotoID, &q.StorageKey, &q.QRCodeURL, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find qr code: %w", err)
	}
	return &q, nil
}
