package booking

import (
	"context"

	"roomm8/models"
)

// BookingCreator persists a single booking. The backend client satisfies it.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.BookingRecord, error)
}
