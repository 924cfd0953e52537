package station

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the stations schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "station-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			status TEXT NOT NULL,
			power_output REAL NOT NULL CHECK (power_output >= 0),
			connector_type TEXT NOT NULL,
			added_by TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE INDEX idx_stations_added_by ON stations(added_by);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("creating stations schema: %v", err)
	}

	return db
}

func sampleStation(name, owner string) *Station {
	return &Station{
		Name:          name,
		Latitude:      51.5,
		Longitude:     -0.12,
		Status:        "Active",
		PowerOutput:   50,
		ConnectorType: "CCS",
		AddedBy:       owner,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	st := sampleStation("central-hub", "alice")
	if err := repo.Create(ctx, st); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !strings.HasPrefix(st.ID, "stn-") {
		t.Errorf("ID = %q, want stn- prefix", st.ID)
	}

	got, err := repo.GetByName(ctx, "central-hub", "alice")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}

	if got.Name != "central-hub" {
		t.Errorf("Name = %q, want %q", got.Name, "central-hub")
	}
	if got.Latitude != 51.5 || got.Longitude != -0.12 {
		t.Errorf("coordinates = (%v, %v), want (51.5, -0.12)", got.Latitude, got.Longitude)
	}
	if got.PowerOutput != 50 {
		t.Errorf("PowerOutput = %v, want 50", got.PowerOutput)
	}
	if got.AddedBy != "alice" {
		t.Errorf("AddedBy = %q, want %q", got.AddedBy, "alice")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestRepository_Create_NameTakenGlobally(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, sampleStation("central-hub", "alice")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Name uniqueness is global, not per-owner
	err := repo.Create(ctx, sampleStation("central-hub", "bob"))
	if !errors.Is(err, ErrNameTaken) {
		t.Errorf("Create() duplicate error = %v, want ErrNameTaken", err)
	}
}

func TestRepository_Create_Concurrent(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, sampleStation("contested", "alice"))
		}(i)
	}
	wg.Wait()

	var succeeded, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNameTaken):
			taken++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
	if taken != workers-1 {
		t.Errorf("ErrNameTaken count = %d, want %d", taken, workers-1)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestRepository_ListByOwner(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	for _, name := range []string{"north-1", "north-2"} {
		if err := repo.Create(ctx, sampleStation(name, "alice")); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}
	if err := repo.Create(ctx, sampleStation("south-1", "bob")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stations, err := repo.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("ListByOwner() returned %d stations, want 2", len(stations))
	}
	for _, st := range stations {
		if st.AddedBy != "alice" {
			t.Errorf("AddedBy = %q, want %q", st.AddedBy, "alice")
		}
	}
}

func TestRepository_ListByOwner_Empty(t *testing.T) {
	repo := NewRepository(testDB(t))

	stations, err := repo.ListByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if stations == nil {
		t.Fatal("ListByOwner() returned nil, want empty slice")
	}
	if len(stations) != 0 {
		t.Errorf("ListByOwner() returned %d stations, want 0", len(stations))
	}
}

func TestRepository_Update(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	st := sampleStation("central-hub", "alice")
	if err := repo.Create(ctx, st); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated := sampleStation("central-hub", "alice")
	updated.Status = "Maintenance"
	updated.PowerOutput = 150
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByName(ctx, "central-hub", "alice")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.Status != "Maintenance" {
		t.Errorf("Status = %q, want %q", got.Status, "Maintenance")
	}
	if got.PowerOutput != 150 {
		t.Errorf("PowerOutput = %v, want 150", got.PowerOutput)
	}
	// Identity fields are preserved
	if got.ID != st.ID {
		t.Errorf("ID = %q, want %q", got.ID, st.ID)
	}
	if !got.CreatedAt.Equal(st.CreatedAt) {
		t.Errorf("CreatedAt changed: %v, want %v", got.CreatedAt, st.CreatedAt)
	}
}

func TestRepository_Update_WrongOwner(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, sampleStation("central-hub", "alice")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Another operator's station looks identical to a missing one
	other := sampleStation("central-hub", "bob")
	if err := repo.Update(ctx, other); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Update() error = %v, want ErrStationNotFound", err)
	}

	missing := sampleStation("no-such-station", "alice")
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Update() error = %v, want ErrStationNotFound", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, sampleStation("central-hub", "alice")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "central-hub", "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByName(ctx, "central-hub", "alice"); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("GetByName() after delete error = %v, want ErrStationNotFound", err)
	}

	// A second delete of the same name reports not found
	if err := repo.Delete(ctx, "central-hub", "alice"); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Delete() second call error = %v, want ErrStationNotFound", err)
	}
}

func TestRepository_Delete_WrongOwner(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, sampleStation("central-hub", "alice")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "central-hub", "bob"); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Delete() error = %v, want ErrStationNotFound", err)
	}

	// Still present for the real owner
	if _, err := repo.GetByName(ctx, "central-hub", "alice"); err != nil {
		t.Errorf("GetByName() error = %v, station should survive", err)
	}

	// Name remains reserved
	if err := repo.Create(ctx, sampleStation("central-hub", "bob")); !errors.Is(err, ErrNameTaken) {
		t.Errorf("Create() error = %v, want ErrNameTaken", err)
	}
}

func TestStation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Station)
		wantErr string
	}{
		{name: "valid", modify: func(s *Station) {}, wantErr: ""},
		{name: "missing name", modify: func(s *Station) { s.Name = "" }, wantErr: "Name"},
		{name: "name too long", modify: func(s *Station) { s.Name = strings.Repeat("x", 129) }, wantErr: "Name"},
		{name: "latitude too low", modify: func(s *Station) { s.Latitude = -90.5 }, wantErr: "Latitude"},
		{name: "latitude too high", modify: func(s *Station) { s.Latitude = 91 }, wantErr: "Latitude"},
		{name: "longitude too low", modify: func(s *Station) { s.Longitude = -181 }, wantErr: "Longitude"},
		{name: "longitude too high", modify: func(s *Station) { s.Longitude = 180.1 }, wantErr: "Longitude"},
		{name: "latitude boundary", modify: func(s *Station) { s.Latitude = 90 }, wantErr: ""},
		{name: "longitude boundary", modify: func(s *Station) { s.Longitude = -180 }, wantErr: ""},
		{name: "missing status", modify: func(s *Station) { s.Status = "" }, wantErr: "Status"},
		{name: "negative power", modify: func(s *Station) { s.PowerOutput = -1 }, wantErr: "PowerOutput"},
		{name: "zero power", modify: func(s *Station) { s.PowerOutput = 0 }, wantErr: ""},
		{name: "missing connector", modify: func(s *Station) { s.ConnectorType = "" }, wantErr: "ConnectorType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := sampleStation("central-hub", "alice")
			tt.modify(st)
			err := st.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
