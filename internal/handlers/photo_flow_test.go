package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"photoshare/internal/models"
	"photoshare/internal/store"
)

func newPhotoHandler(t *testing.T) (*Photos, *store.PhotoStore) {
	t.Helper()
	db := testDB(t)
	photos := store.NewPhotoStore(db)
	// nil storage client: S3 cleanup is skipped, uploads refuse with 503.
	return NewPhotos(photos, store.NewTransformedImageStore(db), store.NewQRCodeStore(db), nil), photos
}

func TestPhotoListAndGet(t *testing.T) {
	h, _ := newPhotoHandler(t)
	db := testDB(t)

	owner := createUser(t, db, models.RoleUser)
	photo := createPhoto(t, db, owner, "public view", []string{"landscape"})

	r := newRouter()
	r.Get("/api/photos", h.List)
	r.Get("/api/photos/{id}", h.Get)

	status, payload := doJSON(t, r, http.MethodGet, "/api/photos?limit=100", nil)
	if status != http.StatusOK {
		t.Fatalf("list: got %d, want 200", status)
	}
	if _, ok := payload["data"].([]any); !ok {
		t.Fatalf("list: data is not an array: %v", payload["data"])
	}

	status, payload = doJSON(t, r, http.MethodGet, "/api/photos/"+photo.ID.String(), nil)
	if status != http.StatusOK {
		t.Fatalf("get: got %d, want 200", status)
	}
	if got := dataField(t, payload, "url"); got != photo.URL {
		t.Errorf("url: got %v, want %s", got, photo.URL)
	}
	tags, _ := dataField(t, payload, "tags").([]any)
	if len(tags) != 1 || tags[0] != "landscape" {
		t.Errorf("tags: got %v, want [landscape]", tags)
	}

	status, _ = doJSON(t, r, http.MethodGet, "/api/photos/"+uuid.New().String(), nil)
	if status != http.StatusNotFound {
		t.Errorf("unknown photo: got %d, want 404", status)
	}

	status, _ = doJSON(t, r, http.MethodGet, "/api/photos?limit=nope", nil)
	if status != http.StatusBadRequest {
		t.Errorf("bad limit: got %d, want 400", status)
	}
}

func TestPhotoUpdatePermissions(t *testing.T) {
	h, _ := newPhotoHandler(t)
	db := testDB(t)

	owner := createUser(t, db, models.RoleUser)
	stranger := createUser(t, db, models.RoleUser)
	admin := createUser(t, db, models.RoleAdmin)
	photo := createPhoto(t, db, owner, "before", nil)

	r := newRouter()
	r.Put("/api/photos/{id}", h.Update)
	path := "/api/photos/" + photo.ID.String()

	status, _ := doJSON(t, asUser(stranger, r), http.MethodPut, path, map[string]any{"description": "hijacked"})
	if status != http.StatusForbidden {
		t.Errorf("stranger update: got %d, want 403", status)
	}

	status, payload := doJSON(t, asUser(owner, r), http.MethodPut, path, map[string]any{"description": "after"})
	if status != http.StatusOK {
		t.Fatalf("owner update: got %d, want 200: %v", status, payload)
	}
	if got := dataField(t, payload, "description"); got != "after" {
		t.Errorf("description: got %v, want after", got)
	}

	status, _ = doJSON(t, asUser(admin, r), http.MethodPut, path, map[string]any{"description": "admin override"})
	if status != http.StatusOK {
		t.Errorf("admin update: got %d, want 200", status)
	}
}

func TestPhotoDeletePermissions(t *testing.T) {
	h, photos := newPhotoHandler(t)
	db := testDB(t)

	owner := createUser(t, db, models.RoleUser)
	stranger := createUser(t, db, models.RoleUser)
	photo := createPhoto(t, db, owner, "short-lived", nil)

	r := newRouter()
	r.Delete("/api/photos/{id}", h.Delete)
	path := "/api/photos/" + photo.ID.String()

	status, _ := doJSON(t, asUser(stranger, r), http.MethodDelete, path, nil)
	if status != http.StatusForbidden {
		t.Errorf("stranger delete: got %d, want 403", status)
	}

	status, _ = doJSON(t, asUser(owner, r), http.MethodDelete, path, nil)
	if status != http.StatusOK {
		t.Errorf("owner delete: got %d, want 200", status)
	}

	if found, _ := photos.FindByID(photo.ID); found != nil {
		t.Error("photo still present after delete")
	}

	status, _ = doJSON(t, asUser(owner, r), http.MethodDelete, path, nil)
	if status != http.StatusNotFound {
		t.Errorf("delete again: got %d, want 404", status)
	}
}

func TestPhotoUploadWithoutStorage(t *testing.T) {
	h, _ := newPhotoHandler(t)
	db := testDB(t)
	user := createUser(t, db, models.RoleUser)

	r := newRouter()
	r.Post("/api/photos", h.Upload)

	status, _ := doJSON(t, asUser(user, r), http.MethodPost, "/api/photos", nil)
	if status != http.StatusServiceUnavailable {
		t.Errorf("upload without storage: got %d, want 503", status)
	}
}
