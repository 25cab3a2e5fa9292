// Package client contains the HTTP client for the gophnotes backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the /api/auth/* and /api/notes/* endpoints.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that keeps the
//     session cookie in a cookie jar, attaches the anti-forgery token to
//     mutating requests, transparently refreshes an expired token and replays
//     the request once, and bounds every request with a timeout.
//
// # Error Handling
//
// Every failure is an *APIError carrying the HTTP status (0 for transport
// failures) and a human-readable message. The failure class is exposed as a
// sentinel that callers can match with errors.Is: ErrUnauthorized,
// ErrForbidden, ErrServer, ErrRequestFailed, ErrTimeout, ErrOffline,
// ErrConnection.
//
// Concurrency & Contexts
//
// HTTPClient is meant to be driven by one user at a time; the CSRF token is
// guarded by a mutex so a background caller cannot corrupt it. All operations
// accept context.Context and honor cancellation on top of the client timeout.
package client
