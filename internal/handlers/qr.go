package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"photoshare/internal/storage"
	"photoshare/internal/store"
)

// qrSize is the side length of generated QR PNGs in pixels.
const qrSize = 256

// QR handles QR code generation and lookup for photos.
type QR struct {
	photos  *store.PhotoStore
	qrCodes *store.QRCodeStore
	storage *storage.Client
}

// NewQR creates a new QR handler group.
func NewQR(photos *store.PhotoStore, qrCodes *store.QRCodeStore, storageClient *storage.Client) *QR {
	return &QR{photos: photos, qrCodes: qrCodes, storage: storageClient}
}

// Generate encodes the photo's URL as a QR PNG, stores it, and upserts
// the record. Regenerating replaces the previous code.
func (h *QR) Generate(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

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

	png, err := qrcode.Encode(photo.URL, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("qr encode failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "failed to generate qr code")
		return
	}

	key := fmt.Sprintf("qr/%s.png", photoID)
	if err := h.storage.Upload(r.Context(), key, "image/png", bytes.NewReader(png), int64(len(png))); err != nil {
		slog.Error("qr upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to store qr code")
		return
	}

	record, err := h.qrCodes.Upsert(photoID, key, h.storage.FileURL(key))
	if err != nil {
		slog.Error("qr upsert failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, "qr code generated", record)
}

// Get returns the stored QR code for a photo, 404 if none was
// generated yet.
func (h *QR) Get(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	record, err := h.qrCodes.FindByPhoto(photoID)
	if err != nil {
		slog.Error("qr lookup failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "qr code not found")
		return
	}
	writeJSON(w, http.StatusOK, "ok", record)
}
