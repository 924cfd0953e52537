package api

import (
	"net/http"

	"github.com/evlens/evlens-core/internal/activity"
)

// handleGetActivity returns the caller's most recent activity entries,
// newest first, capped at the feed window size.
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeContext(r)
	defer cancel()
	entries, err := s.activityRepo.Recent(ctx, operatorFrom(r), activity.RecentLimit)
	if err != nil {
		s.writeStorageError(w, "list activity", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
