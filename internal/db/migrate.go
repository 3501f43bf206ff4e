package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// ApplyMigrationFile executes one migration script. Scripts use
// CREATE TABLE IF NOT EXISTS plus additive ALTERs, so re-applying them on an
// already-migrated database is harmless. MySQL deployments provision the
// equivalent schema externally; this path covers the sqlite store.
func ApplyMigrationFile(db *sql.DB, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.Exec(string(b)); err != nil && !isDuplicateErr(err) {
		return fmt.Errorf("apply migration %s: %w", path, err)
	}
	return nil
}

func isDuplicateErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
