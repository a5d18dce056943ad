package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/roster-wins/internal/config"
)

// TestDatabaseEnv names the variable holding the test database password; its
// presence enables integration tests.
const TestDatabaseEnv = "ROSTER_WINS_TEST_DATABASE_PASSWORD"

// SetupTestDB connects to the local test database or skips the test
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	password, ok := os.LookupEnv(TestDatabaseEnv)
	if !ok {
		t.Skip("Integration test - requires database setup (" + TestDatabaseEnv + ")")
	}

	cfg := &config.DatabaseConfig{
		Enabled:        true,
		Host:           envOr("ROSTER_WINS_TEST_DATABASE_HOST", "localhost"),
		Port:           5432,
		Name:           envOr("ROSTER_WINS_TEST_DATABASE_NAME", "roster_wins_test"),
		User:           envOr("ROSTER_WINS_TEST_DATABASE_USER", "roster_wins"),
		Password:       password,
		SSLMode:        "disable",
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to prepare test schema: %v", err)
	}

	return db
}

// TeardownTestDB empties the registry and closes the connection
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.pool.Exec(ctx, "TRUNCATE models"); err != nil {
		t.Logf("warning: failed to truncate test registry: %v", err)
	}
	db.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
