// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"photoshare/internal/database"
	"photoshare/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with local development defaults.
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

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
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

// createTestUser inserts a user with unique credentials and registers
// cleanup. The cascade removes the user's photos, comments, and ratings.
func createTestUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	s := NewUserStore(db)
	suffix := uuid.New().String()[:8]
	u, err := s.Create("user-"+suffix, "user-"+suffix+"@store-test.local", "testpass123", role)
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

// createTestPhoto inserts a photo owned by the given user.
func createTestPhoto(t *testing.T, db *sql.DB, owner *models.User, description string, tags []string) *models.Photo {
	t.Helper()

	s := NewPhotoStore(db)
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
