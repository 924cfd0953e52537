package station

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for station persistence. Single-station
// reads are not part of it: every registry operation works on the owner's
// full list or mutates by name in one statement.
type Repository interface {
	Create(ctx context.Context, st *Station) error
	ListByOwner(ctx context.Context, owner string) ([]*Station, error)
	Update(ctx context.Context, st *Station) error
	Delete(ctx context.Context, name, owner string) error
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed station repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new station. The ID is generated if empty.
// Returns ErrNameTaken when the name is registered by any operator; the
// UNIQUE constraint makes the check-and-insert atomic under concurrent adds.
func (r *SQLiteRepository) Create(ctx context.Context, st *Station) error {
	if st.ID == "" {
		st.ID = "stn-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	st.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	st.UpdatedAt = st.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stations
			(id, name, latitude, longitude, status, power_output, connector_type, added_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.Latitude, st.Longitude, st.Status,
		st.PowerOutput, st.ConnectorType, st.AddedBy, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("creating station: %w", err)
	}

	return nil
}

// ListByOwner returns all stations added by the given operator.
// The result is never nil; an operator with no stations gets an empty slice.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]*Station, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, status, power_output, connector_type, added_by, created_at, updated_at
		 FROM stations WHERE added_by = ? ORDER BY created_at, rowid`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer rows.Close()

	stations := make([]*Station, 0)
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stations: %w", err)
	}

	return stations, nil
}

// GetByName retrieves a station by name, scoped to the owner.
// Returns ErrStationNotFound for a missing station or one owned by a
// different operator.
func (r *SQLiteRepository) GetByName(ctx context.Context, name, owner string) (*Station, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude, status, power_output, connector_type, added_by, created_at, updated_at
		 FROM stations WHERE name = ? AND added_by = ?`, name, owner)

	st, err := scanStation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return st, nil
}

// Update replaces the mutable fields of the station named st.Name, scoped to
// st.AddedBy. The single-statement owner check means a concurrent delete or
// a station owned by another operator both surface as ErrStationNotFound.
func (r *SQLiteRepository) Update(ctx context.Context, st *Station) error {
	now := time.Now().UTC().Format(time.RFC3339)
	st.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	res, err := r.db.ExecContext(ctx,
		`UPDATE stations
		 SET latitude = ?, longitude = ?, status = ?, power_output = ?, connector_type = ?, updated_at = ?
		 WHERE name = ? AND added_by = ?`,
		st.Latitude, st.Longitude, st.Status, st.PowerOutput, st.ConnectorType, now,
		st.Name, st.AddedBy,
	)
	if err != nil {
		return fmt.Errorf("updating station: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating station: %w", err)
	}
	if affected == 0 {
		return ErrStationNotFound
	}

	return nil
}

// Delete removes the named station, scoped to the owner.
// Returns ErrStationNotFound when nothing was deleted.
func (r *SQLiteRepository) Delete(ctx context.Context, name, owner string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM stations WHERE name = ? AND added_by = ?", name, owner)
	if err != nil {
		return fmt.Errorf("deleting station: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting station: %w", err)
	}
	if affected == 0 {
		return ErrStationNotFound
	}

	return nil
}

// Count returns the total number of registered stations.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stations").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting stations: %w", err)
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanStation.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*Station, error) {
	var st Station
	var createdAt, updatedAt string
	err := row.Scan(
		&st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.Status,
		&st.PowerOutput, &st.ConnectorType, &st.AddedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning station: %w", err)
	}

	st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	st.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	return &st, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
