// Package repomanager selects and owns the record store for the process:
// in-memory tables when no database is configured, otherwise SQL
// repositories over Postgres or SQLite with goose migrations.
package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/geoledger/internal/server/repositories/donations"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/ngos"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/projects"
)

type RepositoryManager interface {
	Donations() donations.Repository
	NGOs() ngos.Repository
	Projects() projects.Repository
	// Durable reports whether records survive a restart.
	Durable() bool
	RunMigrations(ctx context.Context) error
	Close() error
}

// Options tune store selection.
type Options struct {
	// SeedDemo loads the demo NGO catalogue into the in-memory store.
	SeedDemo bool
}

// Open picks the backend from dsn: empty selects memory, a sqlite: or
// file: prefix selects SQLite, anything else is handed to pgx.
func Open(dsn string, opts Options) (RepositoryManager, error) {
	switch {
	case dsn == "":
		return NewMemoryRepositoryManager(opts.SeedDemo), nil
	case strings.HasPrefix(dsn, "sqlite:"), strings.HasPrefix(dsn, "file:"):
		return NewSQLiteRepositoryManager(dsn)
	default:
		return NewPostgresRepositoryManager(dsn)
	}
}
