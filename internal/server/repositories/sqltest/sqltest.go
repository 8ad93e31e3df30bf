// Package sqltest opens throwaway SQLite databases with the production
// schema applied, for repository tests.
package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/geoledger/internal/server/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var seq atomic.Int64

// Open returns a migrated in-memory SQLite database closed at test cleanup.
// Each call gets its own database.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sqltest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// InsertNGO adds a pending NGO row so rows referencing it satisfy the
// foreign keys, and returns its id.
func InsertNGO(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`INSERT INTO ngos (name, wallet_address, verification_status, created_at)
		VALUES ($1, $2, 'pending', CURRENT_TIMESTAMP) RETURNING id`, name, "G"+name).Scan(&id)
	if err != nil {
		t.Fatalf("insert ngo: %v", err)
	}
	return id
}
