package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"photoshare/internal/models"
)

// RatingStore handles all rating-related database operations.
type RatingStore struct {
	db *sql.DB
}

// NewRatingStore creates a new RatingStore with the given database connection.
func NewRatingStore(db *sql.DB) *RatingStore {
	return &RatingStore{db: db}
}

const ratingColumns = `id, photo_id, user_id, rating, created_at`

func scanRating(scanner interface{ Scan(...any) error }) (*models.Rating, error) {
	var r models.Rating
	err := scanner.Scan(&r.ID, &r.PhotoID, &r.UserID, &r.Rating, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a rating. The (photo_id, user_id) unique constraint makes
// duplicate ratings surface as ErrDuplicate.
func (s *RatingStore) Create(photoID, userID uuid.UUID, value int) (*models.Rating, error) {
	row := s.db.QueryRow(`
		INSERT INTO ratings (photo_id, user_id, rating)
		VALUES ($1, $2, $3)
		RETURNING `+ratingColumns, photoID, userID, value)
	r, err := scanRating(row)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return r, nil
}

// FindByID retrieves a rating by its UUID. Returns nil if not found.
func (s *RatingStore) FindByID(id uuid.UUID) (*models.Rating, error) {
	row := s.db.QueryRow(`SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id)
	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find rating by id: %w", err)
	}
	return r, nil
}

// FindUserRating returns the rating a user gave a photo, or nil if they
// haven't rated it.
func (s *RatingStore) FindUserRating(photoID, userID uuid.UUID) (*models.Rating, error) {
	row := s.db.QueryRow(`
		SELECT `+ratingColumns+` FROM ratings
		WHERE photo_id = $1 AND user_id = $2
	`, photoID, userID)
	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user rating: %w", err)
	}
	return r, nil
}

// ListByPhoto returns all ratings on a photo, newest first.
func (s *RatingStore) ListByPhoto(photoID uuid.UUID) ([]models.Rating, error) {
	rows, err := s.db.Query(`
		SELECT `+ratingColumns+`
		FROM ratings
		WHERE photo_id = $1
		ORDER BY created_at DESC, id
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, *r)
	}
	return ratings, rows.Err()
}

// Average returns the mean rating of a photo, or 0 when it has none.
func (s *RatingStore) Average(photoID uuid.UUID) (float64, error) {
	var avg float64
	err := s.db.QueryRow(`
		SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE photo_id = $1
	`, photoID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

// Delete removes a rating. Returns false if no rating had the given ID.
func (s *RatingStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete rating: rows affected: %w", err)
	}
	return n > 0, nil
}
