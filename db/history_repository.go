package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// HistoryEntry is one stored lookup as the mock backend persists it.
type HistoryEntry struct {
	ID         string
	IP         string
	City       string
	Region     string
	Country    string
	ISP        string
	Lat        sql.NullFloat64
	Lng        sql.NullFloat64
	SearchedAt time.Time
}

type SQLiteHistoryRepository struct {
	db *sql.DB
}

func NewSQLiteHistoryRepository(conn *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: conn}
}

func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteHistoryRepository) Create(ctx context.Context, entry *HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history (id, ip, city, region, country, isp, lat, lng, searched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.IP, entry.City, entry.Region, entry.Country,
		entry.ISP, entry.Lat, entry.Lng, entry.SearchedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepository) FindByID(ctx context.Context, id string) (*HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, ip, city, region, country, isp, lat, lng, searched_at
		FROM history WHERE id = ?`, id)

	var entry HistoryEntry
	err := row.Scan(&entry.ID, &entry.IP, &entry.City, &entry.Region,
		&entry.Country, &entry.ISP, &entry.Lat, &entry.Lng, &entry.SearchedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SQLiteHistoryRepository) FindAll(ctx context.Context) ([]*HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ip, city, region, country, isp, lat, lng, searched_at
		FROM history ORDER BY searched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.IP, &entry.City, &entry.Region,
			&entry.Country, &entry.ISP, &entry.Lat, &entry.Lng, &entry.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// DeleteByIDs removes the given entries in one statement.
func (r *SQLiteHistoryRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := r.db.ExecContext(ctx,
		"DELETE FROM history WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to delete history entries: %w", err)
	}
	return nil
}
