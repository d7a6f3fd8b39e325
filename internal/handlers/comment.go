package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/store"
)

// Comments groups the comment handlers.
type Comments struct {
	comments *store.CommentStore
	photos   *store.PhotoStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, photos *store.PhotoStore) *Comments {
	return &Comments{comments: comments, photos: photos}
}

type commentRequest struct {
	Text string `json:"text"`
}

// Create adds a comment to a photo.
func (c *Comments) Create(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateComment(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	photo, err := c.photos.FindByID(photoID)
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
	comment, err := c.comments.Create(req.Text, user.ID, photoID)
	if err != nil {
		slog.Error("comment create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, "comment created", comment)
}

// Get returns one comment by id.
func (c *Comments) Get(w http.ResponseWriter, r *http.Request) {
	comment, ok := c.commentFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, "ok", comment)
}

// ListByPhoto returns a photo's comments, oldest first.
func (c *Comments) ListByPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	photo, err := c.photos.FindByID(photoID)
	if err != nil {
		slog.Error("photo lookup failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}

	comments, err := c.comments.ListByPhoto(photoID)
	if err != nil {
		slog.Error("comment list failed", "error", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, "ok", comments)
}

// Update edits a comment's text. Allowed for the author, moderators,
// and admins.
func (c *Comments) Update(w http.ResponseWriter, r *http.Request) {
	comment, ok := c.commentFromPath(w, r)
	if !ok {
		return
	}
	user := middleware.PrincipalFromCtx(r.Context())
	if comment.UserID != user.ID && !user.CanModerate() {
		writeError(w, http.StatusForbidden, "not your comment")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateComment(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := c.comments.Update(comment.ID, req.Text)
	if err != nil {
		slog.Error("comment update failed", "error", err, "comment_id", comment.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	writeJSON(w, http.StatusOK, "comment updated", updated)
}

// Delete removes a comment, responding 204 with no body. The route
// guard restricts this to admins and moderators.
func (c *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	ok, err := c.comments.Delete(id)
	if err != nil {
		slog.Error("comment delete failed", "error", err, "comment_id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Comments) commentFromPath(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return nil, false
	}
	comment, err := c.comments.FindByID(id)
	if err != nil {
		slog.Error("comment lookup failed", "error", err, "comment_id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if comment == nil {
		writeError(w, http.StatusNotFound, "comment not found")
		return nil, false
	}
	return comment, true
}
