package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"photoshare/internal/models"
)

// PhotoStore handles all photo-related database operations, including the
// tag table and the photo_tags junction.
type PhotoStore struct {
	db *sql.DB
}

// NewPhotoStore creates a new PhotoStore with the given database connection.
func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

const photoColumns = `id, storage_key, url, description, user_id, created_at, updated_at`

func scanPhoto(scanner interface{ Scan(...any) error }) (*models.Photo, error) {
	var p models.Photo
	err := scanner.Scan(
		&p.ID, &p.StorageKey, &p.URL, &p.Description, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a photo together with its tags in one transaction.
// Tag names are lowercased and created on demand; existing tags are reused.
func (s *PhotoStore) Create(p *models.Photo, tags []string) (*models.Photo, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create photo: begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO photos (storage_key, url, description, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+photoColumns,
		p.StorageKey, p.URL, p.Description, p.UserID)
	created, err := scanPhoto(row)
	if err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}

	created.Tags = []string{}
	for _, name := range normalizeTags(tags) {
		var tagID uuid.UUID
		err := tx.QueryRow(`
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&tagID)
		if err != nil {
			return nil, fmt.Errorf("create tag %q: %w", name, err)
		}

		_, err = tx.Exec(`
			INSERT INTO photo_tags (photo_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, created.ID, tagID)
		if err != nil {
			return nil, fmt.Errorf("attach tag %q: %w", name, err)
		}
		created.Tags = append(created.Tags, name)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create photo: commit: %w", err)
	}
	return created, nil
}

// FindByID retrieves a photo with its tag names. Returns nil if not found.
func (s *PhotoStore) FindByID(id uuid.UUID) (*models.Photo, error) {
	row := s.db.QueryRow(`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find photo by id: %w", err)
	}

	photos := []models.Photo{*p}
	if err := s.attachTags(photos); err != nil {
		return nil, err
	}
	return &photos[0], nil
}

// List returns photos ordered newest first, with pagination and tags.
func (s *PhotoStore) List(limit, offset int) ([]models.Photo, error) {
	rows, err := s.db.Query(`
		SELECT `+photoColumns+`
		FROM photos
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// UpdateDescription changes a photo's description. Returns nil if no photo
// has the given ID.
func (s *PhotoStore) UpdateDescription(id uuid.UUID, description *string) (*models.Photo, error) {
	row := s.db.QueryRow(`
		UPDATE photos SET description = $1, updated_at = NOW() WHERE id = $2
		RETURNING `+photoColumns, description, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update photo: %w", err)
	}

	photos := []models.Photo{*p}
	if err := s.attachTags(photos); err != nil {
		return nil, err
	}
	return &photos[0], nil
}

// Delete removes a photo and returns it so the caller can clean up the
// corresponding S3 objects. Comments, ratings, junction rows, transformed
// images, and QR codes are removed by the database cascade; tags survive.
func (s *PhotoStore) Delete(id uuid.UUID) (*models.Photo, error) {
	row := s.db.QueryRow(`
		DELETE FROM photos WHERE id = $1
		RETURNING `+photoColumns, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete photo: %w", err)
	}
	return p, nil
}

// attachTags loads tag names for the given photos in a single junction
// query, keeping every join explicit at the call site.
func (s *PhotoStore) attachTags(photos []models.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	args := make([]any, len(photos))
	index := make(map[uuid.UUID]*models.Photo, len(photos))
	for i := range photos {
		photos[i].Tags = []string{}
		args[i] = photos[i].ID
		index[photos[i].ID] = &photos[i]
	}

	rows, err := s.db.Query(`
		SELECT pt.photo_id, t.name
		FROM photo_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.photo_id IN (`+placeholders(1, len(args))+`)
		ORDER BY t.name
	`, args...)
	if err != nil {
		return fmt.Errorf("load photo tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photoID uuid.UUID
		var name string
		if err := rows.Scan(&photoID, &name); err != nil {
			return fmt.Errorf("scan photo tag: %w", err)
		}
		if p, ok := index[photoID]; ok {
			p.Tags = append(p.Tags, name)
		}
	}
	return rows.Err()
}

// normalizeTags lowercases, trims, and deduplicates tag names, dropping
// empties.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
