// handler_test.go provides shared helpers for handler integration
// tests. Tests run against Postgres and are skipped if it is not
// available. Authentication is injected directly into the request
// context; the token round trip is covered by the middleware and
// token package tests.
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"photoshare/internal/database"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "photoshare")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "photoshare")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	s := store.NewUserStore(db)
	suffix := uuid.New().String()[:8]
	u, err := s.Create("user-"+suffix, "user-"+suffix+"@handler-test.local", "testpass123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Delete(u.ID); err != nil {
			t.Errorf("cleanup user: %v", err)
		}
	})
	return u
}

func createPhoto(t *testing.T, db *sql.DB, owner *models.User, description string, tags []string) *models.Photo {
	t.Helper()

	s := store.NewPhotoStore(db)
	key := "photos/test/" + uuid.New().String() + ".jpg"
	var desc *string
	if description != "" {
		desc = &description
	}
	p, err := s.Create(&models.Photo{
		StorageKey:  key,
		URL:         "https://cdn.test.local/" + key,
		Description: desc,
		UserID:      owner.ID,
	}, tags)
	if err != nil {
		t.Fatalf("create test photo: %v", err)
	}
	return p
}

// asUser wraps a router so every request carries the given principal.
// A nil user leaves the request unauthenticated.
func asUser(user *models.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user != nil {
			r = r.WithContext(middleware.WithPrincipal(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// doJSON performs a request with an optional JSON body against the
// handler and decodes the response envelope.
func doJSON(t *testing.T, h http.Handler, method, target string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, payload
}

// dataField extracts a field from the envelope's data object.
func dataField(t *testing.T, payload map[string]any, field string) any {
	t.Helper()
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", payload)
	}
	return data[field]
}

// newRouter builds a bare chi router for mounting handlers under their
// real URL patterns.
func newRouter() chi.Router {
	return chi.NewRouter()
}
