// Package repomanager vends repository implementations for the configured
// database backend and runs its schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/migrations"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/places"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so callers
// choose between the pool and a transaction per call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Places(db dbx.DBTX) places.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

// New returns the RepositoryManager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case "pgx":
		return &PostgresRepositoryManager{}, nil
	case "sqlite":
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the database, checks the connection and returns it
// together with the matching RepositoryManager. The caller owns the *sql.DB.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	m, err := New(driver)
	if err != nil {
		return nil, nil, err
	}
	if driver == "sqlite" {
		dsn = SQLiteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, m, nil
}

// SQLiteDSN adds the connection settings the store relies on unless the
// DSN already sets them: enforced foreign keys, a busy timeout, WAL
// journaling for file databases and BEGIN IMMEDIATE for every transaction.
func SQLiteDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	inMemory := strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
	if !inMemory && !strings.Contains(dsn, "journal_mode") {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	if !strings.Contains(dsn, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
