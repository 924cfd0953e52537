// Package api implements the HTTP REST API and WebSocket server for EVLens Core.
//
// This package provides:
//   - Operator signup and login issuing JWT bearer tokens
//   - Ownership-scoped station CRUD endpoints
//   - The recent-activity feed, both as a REST endpoint and a live WebSocket stream
//   - JWT authentication with ticket-based WebSocket auth
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server is the single entry point for charging-network operator
// tooling. Every route is a thin translation layer: decode the request,
// resolve the caller's identity from the bearer token, call the repository,
// and map repository errors onto the HTTP status taxonomy.
//
// # Security
//
// Authentication uses JWT tokens carrying the operator name as subject.
// Tokens have no expiry; they stay valid until the signing secret rotates.
// WebSocket connections use single-use tickets to prevent token leakage in URLs.
package api
