package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for activity log persistence.
type Repository interface {
	Record(ctx context.Context, user, action, stationName string) error
	Recent(ctx context.Context, user string, limit int) ([]*Entry, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed activity repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record appends one entry to the activity log.
func (r *SQLiteRepository) Record(ctx context.Context, user, action, stationName string) error {
	id := "act-" + uuid.NewString()[:8]
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, user_name, action, station_name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, user, action, stationName, now,
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}

	return nil
}

// Recent returns the newest entries for the given operator, newest first.
// The limit is clamped to RecentLimit; zero or negative limits also get
// RecentLimit. Entries sharing a timestamp are ordered by insertion order,
// so the latest write always comes back first. The result is never nil.
func (r *SQLiteRepository) Recent(ctx context.Context, user string, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > RecentLimit {
		limit = RecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_name, action, station_name, created_at
		 FROM activity_logs WHERE user_name = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, user, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.User, &e.Action, &e.StationName, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity entries: %w", err)
	}

	return entries, nil
}

// Count returns the total number of recorded entries.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_logs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting activity entries: %w", err)
	}
	return count, nil
}
