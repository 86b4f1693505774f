package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for terminal authentication outcomes.
var (
	// ErrSessionExpired indicates the access token expired and could not
	// be renewed. The session has already been terminated and the login
	// entry point entered by the time callers see this error.
	ErrSessionExpired = errors.New("session expired")

	// ErrAccountBlocked indicates the server reported the account as
	// blocked. Never recovered; the blocked entry point has already
	// been entered.
	ErrAccountBlocked = errors.New("account blocked")
)

// errNoReplayBody means a request with a body could not be rebuilt for
// the post-renewal replay.
var errNoReplayBody = errors.New("request body cannot be replayed")

// ServerError is a non-2xx response that is neither an expired session
// nor a blocked account: a plain request failure surfaced to the user
// without automatic retry.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}
