package session

// Navigator receives the observable navigation effects of terminal
// authentication outcomes: the unauthenticated entry point when a
// refresh fails, and the blocked entry point when the server signals a
// blocked account. The CLI implementation clears the persisted session
// and tells the user what to do next.
type Navigator interface {
	// EnterLogin is invoked when the session has been terminated and
	// the user must authenticate again.
	EnterLogin()

	// EnterBlocked is invoked when the account has been blocked. Never
	// invoked for the logout call itself, so logging out of a blocked
	// account cannot loop.
	EnterBlocked()
}

// NopNavigator ignores all navigation effects. Useful in tests and for
// callers that inspect the session state directly.
type NopNavigator struct{}

func (NopNavigator) EnterLogin()   {}
func (NopNavigator) EnterBlocked() {}
