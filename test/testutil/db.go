package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/creativityhunt/creahunt/internal/config"
	"github.com/creativityhunt/creahunt/internal/db"
)

func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "creahunt",
		Password: "creahunt_pass",
		DBName:   "creahunt_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}
