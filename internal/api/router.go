package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// System metrics (no auth required for basic monitoring)
		r.Get("/metrics", s.handleMetrics)

		// Account endpoints (no auth required)
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)

		// WebSocket upgrade sits outside the bearer group: browser WebSocket
		// clients cannot set an Authorization header, which is why the
		// single-use ticket exists. The handler validates the ticket; the
		// ticket itself is only issued to authenticated callers.
		r.Get("/ws", s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Station registry
			r.Post("/AddStation", s.handleAddStation)
			r.Post("/UpdateStation", s.handleUpdateStation)
			r.Post("/DeleteStation", s.handleDeleteStation)
			r.Get("/GetStations", s.handleGetStations)

			// Activity log
			r.Get("/GetActivity", s.handleGetActivity)

			// WS ticket requires authentication; the ticket carries the
			// operator identity into the WebSocket connection
			r.Post("/ws-ticket", s.handleWSTicket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
