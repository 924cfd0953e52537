package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/evlens/evlens-core/internal/auth"
)

// ticketTTL is how long a WebSocket ticket is valid.
const ticketTTL = 60 * time.Second

// credentialsRequest is the request body for POST /signup and POST /login.
type credentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /login.
type loginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// handleSignup registers a new operator account.
//
// The name check and insert are a single atomic store write, so two
// concurrent signups for the same name resolve to one success and one
// name_taken.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	if !auth.IsValidName(req.Name) {
		writeValidationError(w, "name must be 1-64 characters: letters, digits, dots, hyphens, underscores")
		return
	}
	if !auth.IsValidPassword(req.Password) {
		writeValidationError(w, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		writeInternalError(w, "internal server error")
		return
	}

	user := &auth.User{
		Name:         req.Name,
		PasswordHash: hash,
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, auth.ErrNameExists) {
			writeError(w, http.StatusBadRequest, ErrCodeNameTaken, "name already taken")
			return
		}
		s.writeStorageError(w, "signup", err)
		return
	}

	s.logger.Info("operator registered", "name", user.Name)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Successfully signed up",
	})
}

// handleLogin authenticates an operator and returns a JWT bearer token.
// Unknown name and wrong password both produce the same invalid_credentials
// response; see auth.Authenticate.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body")
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()
	user, err := auth.Authenticate(ctx, s.userRepo, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
			return
		}
		s.writeStorageError(w, "login", err)
		return
	}

	token, err := auth.GenerateToken(user, s.secCfg.JWT.Secret)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeInternalError(w, "internal server error")
		return
	}

	s.logger.Info("operator logged in", "name", user.Name)
	writeJSON(w, http.StatusOK, loginResponse{
		Status: "Success",
		Token:  token,
	})
}

// ticketStore holds pending WebSocket authentication tickets.
// Tickets are single-use, expire after ticketTTL, and carry the operator
// identity from the issuing request into the WebSocket connection.
type ticketStore struct {
	tickets map[string]ticketEntry
	mu      sync.Mutex
}

type ticketEntry struct {
	operator  string
	expiresAt time.Time
}

func newTicketStore() *ticketStore {
	return &ticketStore{
		tickets: make(map[string]ticketEntry),
	}
}

// handleWSTicket generates a single-use WebSocket authentication ticket.
// The client uses this ticket to authenticate the WebSocket connection
// without exposing the JWT in the URL.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	ticket := generateTicket()

	s.tickets.mu.Lock()
	s.tickets.tickets[ticket] = ticketEntry{
		operator:  operatorFrom(r),
		expiresAt: time.Now().Add(ticketTTL),
	}
	s.tickets.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket":     ticket,
		"expires_in": int(ticketTTL.Seconds()),
	})
}

// validateTicket checks if a ticket is valid and consumes it (single-use).
// On success it returns the operator name the ticket was issued to.
func (s *Server) validateTicket(ticket string) (ticketEntry, bool) {
	s.tickets.mu.Lock()
	defer s.tickets.mu.Unlock()

	entry, ok := s.tickets.tickets[ticket]
	if !ok {
		return ticketEntry{}, false
	}

	// Remove ticket (single-use)
	delete(s.tickets.tickets, ticket)

	if time.Now().After(entry.expiresAt) {
		return ticketEntry{}, false
	}
	return entry, true
}

// ticketBytes is the number of random bytes used for WebSocket tickets.
const ticketBytes = 32

// generateTicket creates a cryptographically random ticket string.
func generateTicket() string {
	b := make([]byte, ticketBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}

// cleanExpiredTickets removes expired tickets from the store.
func (s *Server) cleanExpiredTickets() {
	s.tickets.mu.Lock()
	defer s.tickets.mu.Unlock()

	now := time.Now()
	for ticket, entry := range s.tickets.tickets {
		if now.After(entry.expiresAt) {
			delete(s.tickets.tickets, ticket)
		}
	}
}

// cleanTicketsLoop runs cleanExpiredTickets periodically until the context is cancelled.
func (s *Server) cleanTicketsLoop(ctx context.Context) {
	ticker := time.NewTicker(ticketTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanExpiredTickets()
		}
	}
}
