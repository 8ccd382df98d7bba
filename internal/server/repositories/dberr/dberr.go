// Package dberr maps driver-specific database errors onto the sentinel
// errors in internal/common, for both PostgreSQL (pgx) and SQLite (modernc).
package dberr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/placekeeper/internal/common"
)

// PostgreSQL SQLSTATE codes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// Classify converts err into one of the common sentinels when it recognizes
// it, and otherwise wraps it as "db error: ...". nil stays nil.
//
//   - no rows                         -> common.ErrorNotFound
//   - unique violation                -> common.ErrorAlreadyExists
//   - foreign key violation           -> common.ErrorNotFound (referenced row missing)
//   - malformed id (PostgreSQL uuid)  -> common.ErrorNotFound
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, pgErr.ConstraintName)
		case pgInvalidTextRepr:
			return common.ErrorNotFound
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, liteErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, liteErr.Error())
		}
		// Without extended result codes only the primary code is set.
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := liteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE constraint failed"):
				return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, msg)
			case strings.Contains(msg, "FOREIGN KEY constraint failed"):
				return fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
			}
		}
	}

	return fmt.Errorf("db error: %w", err)
}
