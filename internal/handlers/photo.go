package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/storage"
	"photoshare/internal/store"
)

// Upload limits.
const (
	maxUploadBytes = 20 << 20 // 20 MB
	defaultLimit   = 20
	maxLimit       = 100
)

// allowedImageTypes maps sniffed content types to file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Photos groups the photo CRUD handlers.
type Photos struct {
	photos     *store.PhotoStore
	transforms *store.TransformedImageStore
	qrCodes    *store.QRCodeStore
	storage    *storage.Client
}

// NewPhotos creates a new Photos handler group. storage may be nil in
// development; upload and delete then refuse with 503.
func NewPhotos(photos *store.PhotoStore, transforms *store.TransformedImageStore, qrCodes *store.QRCodeStore, storageClient *storage.Client) *Photos {
	return &Photos{
		photos:     photos,
		transforms: transforms,
		qrCodes:    qrCodes,
		storage:    storageClient,
	}
}

// List returns photos newest first with offset/limit pagination.
func (p *Photos) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n > maxLimit {
			n = maxLimit
		}
		limit = n
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	photos, err := p.photos.List(limit, offset)
	if err != nil {
		slog.Error("photo list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	writeJSON(w, http.StatusOK, "ok", photos)
}

// Get returns one photo by id.
func (p *Photos) Get(w http.ResponseWriter, r *http.Request) {
	photo, ok := p.photoFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, "ok", photo)
}

// Upload accepts a multipart photo upload: the image under "file",
// optional "description", and tags as repeated or comma-separated
// "tags" values. The original is stored in S3 and the row plus tags
// are created in one transaction.
func (p *Photos) Upload(w http.ResponseWriter, r *http.Request) {
	if p.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}
	user := middleware.PrincipalFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := http.DetectContentType(fileBytes)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))
	if msg := validateDescription(description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	tags := splitTags(r.Form["tags"])
	if msg := validateTags(tags); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("photos/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New(), ext)

	ctx := r.Context()
	if err := p.storage.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	var desc *string
	if description != "" {
		desc = &description
	}
	photo, err := p.photos.Create(&models.Photo{
		StorageKey:  key,
		URL:         p.storage.FileURL(key),
		Description: desc,
		UserID:      user.ID,
	}, tags)
	if err != nil {
		slog.Error("photo create failed", "error", err)
		// Best effort: don't leave an orphaned object behind.
		if derr := p.storage.Delete(ctx, key); derr != nil {
			slog.Warn("orphan cleanup failed", "error", derr, "key", key)
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("photo uploaded", "photo_id", photo.ID, "user_id", user.ID, "key", key)
	writeJSON(w, http.StatusCreated, "photo uploaded", photo)
}

type updatePhotoRequest struct {
	Description string `json:"description"`
}

// Update changes a photo's description. Owner or admin only.
func (p *Photos) Update(w http.ResponseWriter, r *http.Request) {
	photo, ok := p.photoFromPath(w, r)
	if !ok {
		return
	}
	user := middleware.PrincipalFromCtx(r.Context())
	if photo.UserID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "not your photo")
		return
	}

	var req updatePhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	description := strings.TrimSpace(req.Description)
	if msg := validateDescription(description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var desc *string
	if description != "" {
		desc = &description
	}
	updated, err := p.photos.UpdateDescription(photo.ID, desc)
	if err != nil {
		slog.Error("photo update failed", "error", err, "photo_id", photo.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}
	writeJSON(w, http.StatusOK, "photo updated", updated)
}

// Delete removes a photo, its stored objects, and (via DB cascades)
// its comments, ratings, transforms, and QR code. Owner or admin only.
func (p *Photos) Delete(w http.ResponseWriter, r *http.Request) {
	photo, ok := p.photoFromPath(w, r)
	if !ok {
		return
	}
	user := middleware.PrincipalFromCtx(r.Context())
	if photo.UserID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "not your photo")
		return
	}

	// Collect derived object keys before the cascade removes the rows.
	keys := []string{photo.StorageKey}
	transforms, err := p.transforms.ListByPhoto(photo.ID)
	if err != nil {
		slog.Error("transform list failed", "error", err, "photo_id", photo.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	for _, t := range transforms {
		keys = append(keys, t.StorageKey)
	}
	qr, err := p.qrCodes.FindByPhoto(photo.ID)
	if err != nil {
		slog.Error("qr lookup failed", "error", err, "photo_id", photo.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if qr != nil {
		keys = append(keys, qr.StorageKey)
	}

	deleted, err := p.photos.Delete(photo.ID)
	if err != nil {
		slog.Error("photo delete failed", "error", err, "photo_id", photo.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	if p.storage != nil {
		for _, key := range keys {
			if err := p.storage.Delete(r.Context(), key); err != nil {
				slog.Warn("s3 delete failed", "error", err, "key", key)
			}
		}
	}

	slog.Info("photo deleted", "photo_id", photo.ID, "by", user.ID)
	writeJSON(w, http.StatusOK, "photo deleted", nil)
}

// photoFromPath parses {id} and loads the photo, writing the error
// response itself when the id is bad or the photo is missing.
func (p *Photos) photoFromPath(w http.ResponseWriter, r *http.Request) (*models.Photo, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return nil, false
	}
	photo, err := p.photos.FindByID(id)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "photo_id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return nil, false
	}
	return photo, true
}

// splitTags flattens repeated form values and comma-separated entries.
func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				tags = append(tags, part)
			}
		}
	}
	return tags
}
