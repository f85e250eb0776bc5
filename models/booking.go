package models

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus normalises backend spellings ("CANCELLED", "Cancelled").
// Anything that is not a cancellation counts as confirmed.
func ParseBookingStatus(s string) BookingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cancelled", "canceled":
		return BookingCancelled
	default:
		return BookingConfirmed
	}
}

// ExistingBooking is a reservation fetched from the backend, used for conflict checks.
type ExistingBooking struct {
	ID       int64         `json:"id"`
	RoomID   int64         `json:"roomId"`
	CheckIn  civil.Date    `json:"checkInDate"`
	CheckOut civil.Date    `json:"checkOutDate"`
	Status   BookingStatus `json:"status"`
}

// BookingDraft is an unsubmitted booking line held in the cart.
type BookingDraft struct {
	RoomID        int64   `json:"roomId"`
	Title         string  `json:"title"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"pricePerNight"`
	Image         string  `json:"image"`
	MaxGuests     int     `json:"maxGuests"`
	Guests        int     `json:"guests"`
	Nights        int     `json:"nights"`

	// Canonical dates; the only source of truth for submission.
	CheckInDate  civil.Date `json:"checkInDate"`
	CheckOutDate civil.Date `json:"checkOutDate"`

	// Display strings ("27 Jan"); derived one way from the canonical dates.
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// Subtotal is price-per-night times nights.
func (d BookingDraft) Subtotal() float64 {
	return d.PricePerNight * float64(d.Nights)
}

// CreateBookingRequest is the body of POST /bookings.
type CreateBookingRequest struct {
	PropertyID    int64   `json:"propertyId"`
	UserEmail     string  `json:"userEmail"`
	CheckInDate   string  `json:"checkInDate"`
	CheckOutDate  string  `json:"checkOutDate"`
	Guests        int     `json:"guests"`
	Nights        int     `json:"nights"`
	Subtotal      float64 `json:"subtotal"`
	CleaningFee   float64 `json:"cleaningFee"`
	ServiceFee    float64 `json:"serviceFee"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentMethod string  `json:"paymentMethod"`
}

// BookingRecord is a booking as stored by the backend.
type BookingRecord struct {
	ID            int64         `json:"id"`
	PropertyID    int64         `json:"propertyId"`
	PropertyTitle string        `json:"propertyTitle,omitempty"`
	UserEmail     string        `json:"userEmail"`
	CheckIn       civil.Date    `json:"checkInDate"`
	CheckOut      civil.Date    `json:"checkOutDate"`
	Guests        int           `json:"guests"`
	Nights        int           `json:"nights"`
	Subtotal      float64       `json:"subtotal"`
	CleaningFee   float64       `json:"cleaningFee"`
	ServiceFee    float64       `json:"serviceFee"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod string        `json:"paymentMethod"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
}

// Existing projects a record onto the shape the availability checker consumes.
func (b BookingRecord) Existing() ExistingBooking {
	return ExistingBooking{
		ID:       b.ID,
		RoomID:   b.PropertyID,
		CheckIn:  b.CheckIn,
		CheckOut: b.CheckOut,
		Status:   b.Status,
	}
}
