// Package session models the process-wide authentication session as an
// explicit object with defined transitions: valid at login, invalidated
// by an authentication-required response, repaired by a successful
// token refresh, terminated by a failed refresh or logout, and blocked
// by a blocked-account signal.
//
// The package also persists the session between CLI invocations (the
// credential cookies plus the logged-in user's details, stored under
// the user config dir) and reads the access token's expiry from its
// JWT claims for display purposes only, without validating the
// signature.
package session
