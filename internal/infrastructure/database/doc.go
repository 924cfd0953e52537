// Package database manages the SQLite connection for EVLens Core.
//
// It provides connection lifecycle management (open, health check, close),
// pragmas tuned for a single-writer workload (WAL, busy timeout), and an
// embedded-migration runner. The database is the single source of truth and
// the sole synchronisation point for all registry state: UNIQUE constraints
// and single-statement writes provide the atomicity the service relies on.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "./data/evlens.db", WALMode: true, BusyTimeout: 5})
//	if err != nil { ... }
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil { ... }
package database
