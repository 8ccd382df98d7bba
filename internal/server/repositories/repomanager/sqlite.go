package repomanager

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/migrations"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/places"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. Open the
// database with a DSN passed through SQLiteDSN.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Places(db dbx.DBTX) places.Repository {
	return places.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}
