package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"photoshare/internal/imaging"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/storage"
	"photoshare/internal/store"
)

// Transforms handles server-side image transformation requests.
type Transforms struct {
	photos     *store.PhotoStore
	transforms *store.TransformedImageStore
	storage    *storage.Client
}

// NewTransforms creates a new Transforms handler group.
func NewTransforms(photos *store.PhotoStore, transforms *store.TransformedImageStore, storageClient *storage.Client) *Transforms {
	return &Transforms{photos: photos, transforms: transforms, storage: storageClient}
}

type transformRequest struct {
	Steps []imaging.Step `json:"steps"`
}

// Create applies a list of transformation steps to a photo's original
// and stores the result as a new derived image. Owner only.
func (t *Transforms) Create(w http.ResponseWriter, r *http.Request) {
	if t.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}
	photo, err := t.photos.FindByID(photoID)
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
	if photo.UserID != user.ID {
		writeError(w, http.StatusForbidden, "not your photo")
		return
	}

	var req transformRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Steps) == 0 {
		writeError(w, http.StatusBadRequest, "at least one transformation step is required")
		return
	}
	for i, step := range req.Steps {
		if err := step.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("step %d: %v", i+1, err))
			return
		}
	}

	ctx := r.Context()
	original, err := t.storage.Download(ctx, photo.StorageKey)
	if err != nil {
		slog.Error("original download failed", "error", err, "key", photo.StorageKey)
		writeError(w, http.StatusInternalServerError, "failed to fetch original")
		return
	}

	transformed, err := imaging.Apply(original, req.Steps)
	if err != nil {
		slog.Error("transform failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusBadRequest, "transformation failed")
		return
	}

	key := fmt.Sprintf("transforms/%s/%s.jpg", photoID, uuid.New())
	if err := t.storage.Upload(ctx, key, "image/jpeg", bytes.NewReader(transformed), int64(len(transformed))); err != nil {
		slog.Error("transform upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to store transformed image")
		return
	}

	record, err := t.transforms.Create(photoID, key, t.storage.FileURL(key))
	if err != nil {
		slog.Error("transform record failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("photo transformed", "photo_id", photoID, "key", key, "steps", len(req.Steps))
	writeJSON(w, http.StatusCreated, "image transformed", record)
}

// List returns a photo's transformed images, newest first.
func (t *Transforms) List(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}
	photo, err := t.photos.FindByID(photoID)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	items, err := t.transforms.ListByPhoto(photoID)
	if err != nil {
		slog.Error("transform list failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if items == nil {
		items = []models.TransformedImage{}
	}
	writeJSON(w, http.StatusOK, "ok", items)
}
