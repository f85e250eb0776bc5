// File: roomm8/handlers/bundle.go
package handlers

import (
	"context"
	"time"

	recordsRepo "roomm8/database/repository/records"
	"roomm8/models"
	"roomm8/services/backend"
	"roomm8/services/listing"
	"roomm8/services/session"
)

// BackendAPI is the slice of the backend client the handlers call.
type BackendAPI interface {
	Login(ctx context.Context, email, password string) (backend.LoginResult, error)
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.BookingRecord, error)
	UserBookings(ctx context.Context, userEmail string) ([]models.BookingRecord, error)
	AllBookings(ctx context.Context) ([]models.BookingRecord, error)
	CancelBooking(ctx context.Context, id int64, userEmail string) error
	OwnerProperties(ctx context.Context, ownerEmail string) ([]models.RoomListing, error)
	DeleteProperty(ctx context.Context, id int64, ownerEmail string) error
	UpdatePropertyStatus(ctx context.Context, id int64, status string) error
}

// BackendFactory returns a backend bound to a user's token ("" for anonymous calls).
type BackendFactory func(token string) BackendAPI

// ClientFactory adapts a backend client into a BackendFactory.
func ClientFactory(client *backend.Client) BackendFactory {
	return func(token string) BackendAPI {
		return client.WithToken(token)
	}
}

// HandlerBundle groups the dependencies shared by all endpoint handlers.
type HandlerBundle struct {
	Sessions *session.Manager
	Catalog  *listing.Catalog
	Backend  BackendFactory
	// Records is optional; without it receipts are not persisted.
	Records recordsRepo.CheckoutRecordRepository
	Now     func() time.Time
}

func (hb *HandlerBundle) now() time.Time {
	if hb.Now == nil {
		return time.Now()
	}
	return hb.Now()
}

// backendFor returns a backend carrying the session's token, if any.
func (hb *HandlerBundle) backendFor(auth models.AuthSession) BackendAPI {
	return hb.Backend(auth.Token)
}
