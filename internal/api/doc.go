// Package api implements the HTTP client for the taskcal backend.
//
// The client talks to the service's REST endpoints (login, token
// refresh, OTP registration, logout and task CRUD) with credentials
// carried implicitly on cookies. Every request passes through a
// renewal transport that transparently repairs an expired access
// token: a single silent refresh followed by a single replay of the
// original request. A forbidden response carrying a blocked-account
// reason moves the session to the blocked entry point, except when it
// arrives for the logout call itself.
//
// The package converts wire payloads to the domain types in
// internal/schedule and maps terminal authentication failures to the
// sentinel errors ErrSessionExpired and ErrAccountBlocked.
package api
