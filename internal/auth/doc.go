// Package auth provides authentication for EVLens Core.
//
// It implements:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - JWT bearer tokens (HS256) whose subject is the operator's name
//   - A SQLite-backed user repository enforcing name uniqueness
//
// Login deliberately collapses "unknown name" and "wrong password" into a
// single ErrInvalidCredentials, and runs a dummy hash verification when the
// name is unknown so response timing does not reveal which half was wrong.
//
// Tokens carry no expiry claim: a token stays valid until the signing secret
// is rotated. There is no refresh or revocation machinery in this core.
package auth
