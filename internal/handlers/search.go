package handlers

import (
	"log/slog"
	"net/http"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/store"
)

// Search handles photo search with conjunctive filters and sorting.
type Search struct {
	photos *store.PhotoStore
}

// NewSearch creates a new Search handler.
func NewSearch(photos *store.PhotoStore) *Search {
	return &Search{photos: photos}
}

// Photos runs a search across photos. All query parameters are
// optional and combine conjunctively. The username filter is honored
// only for admins and moderators; for everyone else it is silently
// ignored rather than rejected.
func (s *Search) Photos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy, ok := store.ParseSortBy(q.Get("sort_by"))
	if !ok {
		writeError(w, http.StatusBadRequest, "sort_by must be date or rating")
		return
	}
	order, ok := store.ParseOrder(q.Get("order"))
	if !ok {
		writeError(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	filter := store.SearchFilter{
		Description: q.Get("description"),
		Tag:         q.Get("tag"),
		SortBy:      sortBy,
		Order:       order,
	}

	user := middleware.PrincipalFromCtx(r.Context())
	if user.CanModerate() {
		filter.Username = q.Get("username")
	}

	photos, err := s.photos.Search(filter)
	if err != nil {
		slog.Error("photo search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	writeJSON(w, http.StatusOK, "ok", photos)
}
