package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"photoshare/internal/models"
)

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, text, user_id, photo_id, created_at, updated_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.Text, &c.UserID, &c.PhotoID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new comment and returns it with the generated ID.
func (s *CommentStore) Create(text string, userID, photoID uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (text, user_id, photo_id)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns, text, userID, photoID)
	c, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// FindByID retrieves a comment by its UUID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// ListByPhoto returns all comments on a photo, oldest first.
func (s *CommentStore) ListByPhoto(photoID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE photo_id = $1
		ORDER BY created_at ASC, id
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// Update replaces a comment's text. Returns nil if no comment has the
// given ID.
func (s *CommentStore) Update(id uuid.UUID, text string) (*models.Comment, error) {
	row := s.db.QueryRow(`
		UPDATE comments SET text = $1, updated_at = NOW() WHERE id = $2
		RETURNING `+commentColumns, text, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// Delete removes a comment. Returns false if no comment had the given ID.
func (s *CommentStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete comment: rows affected: %w", err)
	}
	return n > 0, nil
}
