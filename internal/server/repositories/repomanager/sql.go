package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/geoledger/internal/server/migrations"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/dialect"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/donations"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/ngos"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/projects"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends database-backed repositories sharing one pool.
type SQLRepositoryManager struct {
	db         *sql.DB
	dialect    dialect.Dialect
	migrations fs.FS
	dir        string

	donations *donations.SQLRepository
	ngos      *ngos.SQLRepository
	projects  *projects.SQLRepository
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewSQLRepositoryManager wraps an open pool.
func NewSQLRepositoryManager(db *sql.DB, d dialect.Dialect) *SQLRepositoryManager {
	m := &SQLRepositoryManager{
		db:        db,
		dialect:   d,
		donations: donations.NewSQLRepository(db, d),
		ngos:      ngos.NewSQLRepository(db),
		projects:  projects.NewSQLRepository(db),
	}
	switch d {
	case dialect.SQLite:
		m.migrations, m.dir = migrations.SQLite, "sqlite"
	default:
		m.migrations, m.dir = migrations.Postgres, "postgres"
	}
	return m
}

// NewPostgresRepositoryManager opens a pgx pool for dsn.
func NewPostgresRepositoryManager(dsn string) (*SQLRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewSQLRepositoryManager(db, dialect.Postgres), nil
}

// NewSQLiteRepositoryManager opens a SQLite database. The pool is limited
// to one connection so writers never see SQLITE_BUSY.
func NewSQLiteRepositoryManager(dsn string) (*SQLRepositoryManager, error) {
	db, err := sqlOpen("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return NewSQLRepositoryManager(db, dialect.SQLite), nil
}

// sqliteDSN strips the sqlite: scheme and turns on foreign keys.
func sqliteDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite:")
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func (m *SQLRepositoryManager) Donations() donations.Repository { return m.donations }
func (m *SQLRepositoryManager) NGOs() ngos.Repository           { return m.ngos }
func (m *SQLRepositoryManager) Projects() projects.Repository   { return m.projects }
func (m *SQLRepositoryManager) Durable() bool                   { return true }

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(m.migrations)
	if err := goose.SetDialect(m.dialect.Name); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, m.dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
