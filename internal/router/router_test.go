// Package router tests verify the HTTP routing configuration and the
// middleware chains guarding each group.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photoshare/internal/handlers"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/token"
)

// emptyUsers satisfies middleware.UserFinder without a database.
type emptyUsers struct{}

func (emptyUsers) FindByEmail(string) (*models.User, error) { return nil, nil }

func testRouter() http.Handler {
	return New(Deps{
		Tokens:     token.NewService("router-test-secret", time.Minute),
		Users:      emptyUsers{},
		Auth:       handlers.NewAuth(nil, nil),
		Photos:     handlers.NewPhotos(nil, nil, nil, nil),
		Comments:   handlers.NewComments(nil, nil),
		Ratings:    handlers.NewRatings(nil, nil),
		Search:     handlers.NewSearch(nil),
		Transforms: handlers.NewTransforms(nil, nil, nil),
		QR:         handlers.NewQR(nil, nil, nil),
	})
}

func TestHealthRoute(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	testRouter().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q, want application/json", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("message: got %v, want ok", body["message"])
	}
}

// Protected routes reject anonymous requests before reaching handlers,
// so nil handler dependencies are never touched.
func TestProtectedRoutesRequireAuth(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPut, "/api/auth/change-role/abc"},
		{http.MethodPost, "/api/photos/"},
		{http.MethodPut, "/api/photos/abc"},
		{http.MethodDelete, "/api/photos/abc"},
		{http.MethodPost, "/api/comments/abc"},
		{http.MethodPut, "/api/comments/abc"},
		{http.MethodDelete, "/api/comments/abc"},
		{http.MethodPost, "/api/rating/abc"},
		{http.MethodGet, "/api/rating/abc"},
		{http.MethodDelete, "/api/rating/abc"},
		{http.MethodGet, "/api/search_photos"},
		{http.MethodPost, "/api/transform-image/abc"},
		{http.MethodGet, "/api/transform-image/abc"},
		{http.MethodPost, "/api/generate_qr/abc"},
	}
	router := testRouter()
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(rt.method, rt.path, nil)
			router.ServeHTTP(w, r)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("got %d, want 401", w.Code)
			}
		})
	}
}

// Role-guarded routes return 403 for an authenticated regular user.
func TestRoleGuardedRoutes(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/auth/change-role/abc"},
		{http.MethodDelete, "/api/comments/abc"},
		{http.MethodGet, "/api/rating/abc"},
		{http.MethodDelete, "/api/rating/abc"},
	}

	user := &models.User{Role: models.RoleUser}
	router := testRouter()
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(rt.method, rt.path, nil)
			r = r.WithContext(middleware.WithPrincipal(r.Context(), user))
			router.ServeHTTP(w, r)
			if w.Code != http.StatusForbidden {
				t.Errorf("got %d, want 403", w.Code)
			}
		})
	}
}

// Invalid bearer tokens are rejected at the edge on any route.
func TestInvalidTokenRejected(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/photos/", nil)
	r.Header.Set("Authorization", "Bearer bogus")

	testRouter().ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", w.Code)
	}
}
