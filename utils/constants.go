// File: utils/constants.go
package utils

// Redis key prefixes for per-browser state. The suffix is the session ID.
const (
	AuthSessionPrefix = "authSession:"
	PendingCartPrefix = "pendingBookings:"
	RedirectPrefix    = "redirectAfterLogin:"
)

// SessionCookieName carries the browser's session ID.
const SessionCookieName = "roomm8_session"

// Context keys set by the session middleware.
const (
	ContextSessionID = "sessionID"
	ContextWorkspace = "workspace"
)
