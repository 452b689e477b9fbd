package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		// Uploaded book and video content, addressed by sha256 of the bytes.
		`CREATE TABLE IF NOT EXISTS blobs (
			ref TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			size INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
