package booking

import (
	"fmt"

	"cloud.google.com/go/civil"

	"roomm8/models"
)

// Availability is the outcome of a conflict check.
type Availability struct {
	Available bool                    `json:"available"`
	CheckIn   civil.Date              `json:"checkInDate"`
	CheckOut  civil.Date              `json:"checkOutDate"`
	Conflict  *models.ExistingBooking `json:"conflict,omitempty"`
	Message   string                  `json:"message,omitempty"`
}

// CheckAvailability reports whether [checkIn, checkIn+nights) overlaps any
// non-cancelled booking of the same room. Intervals are half-open, so a stay
// starting on another stay's check-out day is free.
func CheckAvailability(roomID int64, checkIn civil.Date, nights int, existing []models.ExistingBooking) (Availability, error) {
	if !checkIn.IsValid() {
		return Availability{}, NewValidationError("Please select check-in date")
	}
	if nights < 1 {
		return Availability{}, NewValidationError("nights must be at least 1")
	}
	checkOut := checkIn.AddDays(nights)

	for i := range existing {
		b := existing[i]
		if b.RoomID != roomID || b.Status == models.BookingCancelled {
			continue
		}
		if checkIn.Before(b.CheckOut) && checkOut.After(b.CheckIn) {
			return Availability{
				Available: false,
				CheckIn:   checkIn,
				CheckOut:  checkOut,
				Conflict:  &b,
				Message:   fmt.Sprintf("This room is already booked until %s", FormatDisplay(b.CheckOut)),
			}, nil
		}
	}
	return Availability{Available: true, CheckIn: checkIn, CheckOut: checkOut}, nil
}

// CheckAvailabilityString parses an ISO check-in date before checking.
func CheckAvailabilityString(roomID int64, checkIn string, nights int, existing []models.ExistingBooking) (Availability, error) {
	d, err := ParseISODate(checkIn)
	if err != nil {
		return Availability{}, err
	}
	return CheckAvailability(roomID, d, nights, existing)
}

// ConflictError turns a negative availability result into a conflict error.
func (a Availability) ConflictError() error {
	if a.Available {
		return nil
	}
	return &Error{Kind: KindConflict, Message: a.Message}
}

// DraftsAsBookings lets drafts already in the cart take part in a conflict check.
func DraftsAsBookings(drafts []models.BookingDraft) []models.ExistingBooking {
	out := make([]models.ExistingBooking, 0, len(drafts))
	for _, d := range drafts {
		if !d.CheckInDate.IsValid() {
			continue
		}
		out = append(out, models.ExistingBooking{
			RoomID:   d.RoomID,
			CheckIn:  d.CheckInDate,
			CheckOut: d.CheckOutDate,
			Status:   models.BookingConfirmed,
		})
	}
	return out
}
