package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/store"
)

// Ratings groups the rating handlers.
type Ratings struct {
	ratings *store.RatingStore
	photos  *store.PhotoStore
}

// NewRatings creates a new Ratings handler group.
func NewRatings(ratings *store.RatingStore, photos *store.PhotoStore) *Ratings {
	return &Ratings{ratings: ratings, photos: photos}
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// Create rates a photo 1..5. Users cannot rate their own photos and
// cannot rate the same photo twice.
func (h *Ratings) Create(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	photo, err := h.photos.FindByID(photoID)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	user := middleware.PrincipalFromCtx(r.Context())
	if photo.UserID == user.ID {
		writeError(w, http.StatusBadRequest, "cannot rate your own photo")
		return
	}

	rating, err := h.ratings.Create(photoID, user.ID, req.Rating)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "you have already rated this photo")
		return
	}
	if err != nil {
		slog.Error("rating create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, "rating created", rating)
}

type averageResponse struct {
	PhotoID       uuid.UUID `json:"photo_id"`
	AverageRating float64   `json:"average_rating"`
}

// Average returns a photo's average rating rounded to two decimals,
// 0.0 when the photo has no ratings yet.
func (h *Ratings) Average(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	photo, err := h.photos.FindByID(photoID)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	avg, err := h.ratings.Average(photoID)
	if err != nil {
		slog.Error("rating average failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, "ok", averageResponse{
		PhotoID:       photoID,
		AverageRating: math.Round(avg*100) / 100,
	})
}

// ListByPhoto returns a photo's individual ratings. The route guard
// restricts this to admins and moderators.
func (h *Ratings) ListByPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	photo, err := h.photos.FindByID(photoID)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	ratings, err := h.ratings.ListByPhoto(photoID)
	if err != nil {
		slog.Error("rating list failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	writeJSON(w, http.StatusOK, "ok", ratings)
}

// Delete removes a single rating, responding 204 with no body. The
// route guard restricts this to admins and moderators.
func (h *Ratings) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ratingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rating id")
		return
	}

	ok, err := h.ratings.Delete(id)
	if err != nil {
		slog.Error("rating delete failed", "error", err, "rating_id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "rating not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
