// Package activity records the append-only log of station mutations.
//
// Every add, update, or delete produces one entry attributed to the operator
// that performed it. Entries are never modified or removed; the read side
// only ever exposes a short window of the most recent entries per operator.
package activity

import (
	"time"
)

// Actions recorded in the activity log.
const (
	ActionAdded   = "Added"
	ActionUpdated = "Updated"
	ActionDeleted = "Deleted"
)

// RecentLimit is the maximum number of entries returned per operator.
const RecentLimit = 10

// Entry is a single activity log record.
//
// JSON field names match the public API contract.
type Entry struct {
	ID          string    `json:"-"`
	User        string    `json:"user"`
	Action      string    `json:"action"`
	StationName string    `json:"stationName"`
	CreatedAt   time.Time `json:"timestamp"`
}
