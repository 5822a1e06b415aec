// Package repositories opens the local SQLite database that backs the
// persistent session store and brings its schema up to date.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/residentportal/internal/client/migrations"
	"github.com/dmitrijs2005/residentportal/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens dsn with the pure-Go sqlite driver and applies
// migrations. The directory holding a file database is created if missing.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if path := filex.SQLiteFilePath(dsn); path != "" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
