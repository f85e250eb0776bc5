package session

import (
	"context"
	"errors"

	"roomm8/models"
)

// ErrNotFound is returned when a key is absent or has expired.
var ErrNotFound = errors.New("session: not found")

// ErrCorruptCart is returned when a stored pending cart cannot be decoded.
// The key is gone by then.
var ErrCorruptCart = errors.New("session: pending cart unreadable")

// Store keeps per-browser state that must outlive a single request: the auth
// session, the cart persisted while the user logs in, and the post-login
// redirect. The Take methods are read-once: a successful read deletes the key.
type Store interface {
	SaveSession(ctx context.Context, id string, s models.AuthSession) error
	LoadSession(ctx context.Context, id string) (*models.AuthSession, error)
	DeleteSession(ctx context.Context, id string) error

	SavePendingCart(ctx context.Context, id string, drafts []models.BookingDraft) error
	TakePendingCart(ctx context.Context, id string) ([]models.BookingDraft, error)

	SaveRedirect(ctx context.Context, id string, route string) error
	TakeRedirect(ctx context.Context, id string) (string, error)

	// ClearPending removes the pending cart and the redirect.
	ClearPending(ctx context.Context, id string) error
}
