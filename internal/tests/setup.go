package tests

import (
	"context"
	"database/sql"
	"fmt"
)

// appTables are truncated between integration subtests
const appTables = "users, properties, appointments, saved_lists"

// TruncateTables truncates application tables for a clean test state.
func TruncateTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, "TRUNCATE TABLE "+appTables+" RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
