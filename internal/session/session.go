package session

import (
	"sync"
)

// User is the logged-in user's identity as returned by the backend.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the process-wide credential state. All transitions are
// safe for concurrent use; network transports invalidate and repair it
// while the rest of the application reads it.
type Session struct {
	mu          sync.Mutex
	accessValid bool
	blocked     bool
	user        User
	active      bool
}

// New returns a session in the logged-out state.
func New() *Session {
	return &Session{}
}

// Begin records a successful login for the given user and marks the
// credential valid.
func (s *Session) Begin(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.active = true
	s.accessValid = true
	s.blocked = false
}

// Invalidate marks the access credential as rejected by the remote
// store. The session itself stays active until a refresh fails.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessValid = false
}

// Repair marks the credential valid again after a successful refresh.
func (s *Session) Repair() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessValid = true
}

// Terminate drops the session entirely: credential invalid, no user.
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessValid = false
	s.active = false
	s.user = User{}
}

// Block records the blocked-account signal and terminates the session.
func (s *Session) Block() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = true
	s.accessValid = false
	s.active = false
}

// Valid reports whether the current credential is believed accepted by
// the remote store.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessValid
}

// Blocked reports whether the account has been signalled as blocked.
func (s *Session) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

// Active reports whether a user is logged in (even if the access
// credential currently needs a refresh).
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// User returns the logged-in user and whether a session is active.
func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.active
}
