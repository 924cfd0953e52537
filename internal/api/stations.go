package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/evlens/evlens-core/internal/activity"
	"github.com/evlens/evlens-core/internal/station"
)

// stationRequest is the request body for POST /AddStation and /UpdateStation.
// Fields are pointers so a missing field is distinguishable from a zero value
// (a station on the equator has Latitude 0).
type stationRequest struct {
	Name          *string  `json:"Name"`
	Latitude      *float64 `json:"Latitude"`
	Longitude     *float64 `json:"Longitude"`
	Status        *string  `json:"Status"`
	PowerOutput   *float64 `json:"PowerOutput"`
	ConnectorType *string  `json:"ConnectorType"`
}

// deleteStationRequest is the request body for POST /DeleteStation.
type deleteStationRequest struct {
	Name string `json:"Name"`
}

// mutationResponse is the success body for station mutations.
// Warning is set when the mutation succeeded but the activity log append
// failed; the mutation is never rolled back for a log failure.
type mutationResponse struct {
	Data    string `json:"Data"`
	Warning string `json:"Warning,omitempty"`
}

// toStation validates the request and converts it to a Station owned by
// the given operator. Returns a client-facing message on validation failure.
func (req *stationRequest) toStation(owner string) (*station.Station, string) {
	switch {
	case req.Name == nil:
		return nil, "Name is required"
	case req.Latitude == nil:
		return nil, "Latitude is required"
	case req.Longitude == nil:
		return nil, "Longitude is required"
	case req.Status == nil:
		return nil, "Status is required"
	case req.PowerOutput == nil:
		return nil, "PowerOutput is required"
	case req.ConnectorType == nil:
		return nil, "ConnectorType is required"
	}

	st := &station.Station{
		Name:          *req.Name,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		Status:        *req.Status,
		PowerOutput:   *req.PowerOutput,
		ConnectorType: *req.ConnectorType,
		AddedBy:       owner,
	}
	if err := st.Validate(); err != nil {
		return nil, err.Error()
	}
	return st, ""
}

// handleAddStation registers a new charging station owned by the caller.
func (s *Server) handleAddStation(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	st, msg := req.toStation(operatorFrom(r))
	if msg != "" {
		writeValidationError(w, msg)
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()
	if err := s.stationRepo.Create(ctx, st); err != nil {
		if errors.Is(err, station.ErrNameTaken) {
			writeError(w, http.StatusConflict, ErrCodeNameConflict, "station name already taken")
			return
		}
		s.writeStorageError(w, "add station", err)
		return
	}

	warning := s.recordActivity(r, st.AddedBy, activity.ActionAdded, st.Name)
	writeJSON(w, http.StatusOK, mutationResponse{
		Data:    "Successfully Added",
		Warning: warning,
	})
}

// handleUpdateStation replaces the mutable fields of a station the caller owns.
func (s *Server) handleUpdateStation(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	st, msg := req.toStation(operatorFrom(r))
	if msg != "" {
		writeValidationError(w, msg)
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()
	if err := s.stationRepo.Update(ctx, st); err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			writeNotFound(w, "station not found")
			return
		}
		s.writeStorageError(w, "update station", err)
		return
	}

	warning := s.recordActivity(r, st.AddedBy, activity.ActionUpdated, st.Name)
	writeJSON(w, http.StatusOK, mutationResponse{
		Data:    "Successfully Updated",
		Warning: warning,
	})
}

// handleDeleteStation removes a station the caller owns.
func (s *Server) handleDeleteStation(w http.ResponseWriter, r *http.Request) {
	var req deleteStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeValidationError(w, "Name is required")
		return
	}

	owner := operatorFrom(r)
	ctx, cancel := s.storeContext(r)
	defer cancel()
	if err := s.stationRepo.Delete(ctx, req.Name, owner); err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			writeNotFound(w, "station not found")
			return
		}
		s.writeStorageError(w, "delete station", err)
		return
	}

	warning := s.recordActivity(r, owner, activity.ActionDeleted, req.Name)
	writeJSON(w, http.StatusOK, mutationResponse{
		Data:    "Successfully Deleted the Station",
		Warning: warning,
	})
}

// handleGetStations lists all stations owned by the caller.
func (s *Server) handleGetStations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeContext(r)
	defer cancel()
	stations, err := s.stationRepo.ListByOwner(ctx, operatorFrom(r))
	if err != nil {
		s.writeStorageError(w, "list stations", err)
		return
	}

	writeJSON(w, http.StatusOK, stations)
}

// recordActivity appends an activity log entry for a successful mutation
// and pushes it to the caller's live feed.
//
// The append is best-effort: on failure the mutation stands, the error is
// logged server-side, and the returned warning is surfaced to the caller.
func (s *Server) recordActivity(r *http.Request, owner, action, stationName string) string {
	ctx, cancel := context.WithTimeout(r.Context(), s.dbCfg.GetQueryTimeout())
	defer cancel()

	if err := s.activityRepo.Record(ctx, owner, action, stationName); err != nil {
		s.logger.Error("activity log append failed",
			"operator", owner,
			"action", action,
			"station", stationName,
			"error", err,
		)
		return "activity log entry could not be recorded"
	}

	if s.hub != nil {
		s.hub.BroadcastActivity(owner, &activity.Entry{
			User:        owner,
			Action:      action,
			StationName: stationName,
			CreatedAt:   time.Now().UTC(),
		})
	}

	return ""
}
