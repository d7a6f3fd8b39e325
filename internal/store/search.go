package store

import (
	"fmt"
	"strings"

	"photoshare/internal/models"
)

// SortBy selects the search result ordering key.
type SortBy string

// Order selects the search result direction.
type Order string

const (
	SortByDate   SortBy = "date"
	SortByRating SortBy = "rating"

	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseSortBy validates a sort_by query value. Empty defaults to date.
func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case SortByDate, SortByRating:
		return SortBy(s), true
	case "":
		return SortByDate, true
	}
	return "", false
}

// ParseOrder validates an order query value. Empty defaults to ascending.
func ParseOrder(s string) (Order, bool) {
	switch Order(s) {
	case OrderAsc, OrderDesc:
		return Order(s), true
	case "":
		return OrderAsc, true
	}
	return "", false
}

// SearchFilter holds the optional conjunctive filters for photo search.
// Empty fields are skipped.
type SearchFilter struct {
	Description string // substring, case-insensitive
	Tag         string // exact tag name, case-insensitive
	Username    string // exact uploader username
	SortBy      SortBy
	Order       Order
}

// Search composes the filters into one query. Rating sort orders by the
// average over an outer join, so photos without ratings rank as average 0.
// Ties break stably on created_at then id.
func (s *PhotoStore) Search(f SearchFilter) ([]models.Photo, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT p.id, p.storage_key, p.url, p.description, p.user_id, p.created_at, p.updated_at FROM photos p`)

	if f.Username != "" {
		sb.WriteString(` JOIN users u ON u.id = p.user_id`)
	}
	if f.SortBy == SortByRating {
		sb.WriteString(` LEFT JOIN ratings r ON r.photo_id = p.id`)
	}

	var conds []string
	if f.Description != "" {
		args = append(args, "%"+f.Description+"%")
		conds = append(conds, fmt.Sprintf("p.description ILIKE $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, strings.ToLower(f.Tag))
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM photo_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.photo_id = p.id AND t.name = $%d
		)`, len(args)))
	}
	if f.Username != "" {
		args = append(args, f.Username)
		conds = append(conds, fmt.Sprintf("u.username = $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	dir := "ASC"
	if f.Order == OrderDesc {
		dir = "DESC"
	}
	if f.SortBy == SortByRating {
		sb.WriteString(" GROUP BY p.id")
		sb.WriteString(fmt.Sprintf(" ORDER BY COALESCE(AVG(r.rating), 0) %s, p.created_at, p.id", dir))
	} else {
		sb.WriteString(fmt.Sprintf(" ORDER BY p.created_at %s, p.id", dir))
	}

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search photos: %w", err)
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
