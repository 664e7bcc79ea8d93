// Package db holds the SQLite storage used by the bundled mock
// backend to persist search history.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ConnectToSQLite initializes and returns a SQLite connection.
func ConnectToSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for SQLite: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return conn, nil
}

// InitializeSchema creates the history table if it doesn't exist.
func InitializeSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		ip TEXT NOT NULL,
		city TEXT NOT NULL,
		region TEXT NOT NULL,
		country TEXT NOT NULL,
		isp TEXT NOT NULL,
		lat REAL,
		lng REAL,
		searched_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}
