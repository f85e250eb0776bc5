package backend

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"roomm8/models"
)

// Wire shapes of the backend REST contract. They are converted to internal
// models at the boundary and nothing outside this package sees them.

type propertyDTO struct {
	ID            *int64   `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	PricePerNight *float64 `json:"pricePerNight"`
	Price         *float64 `json:"price"`
	MaxGuests     int      `json:"maxGuests"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	OwnerEmail    string   `json:"ownerEmail"`
	Status        string   `json:"status"`
}

func (p propertyDTO) toModel() (models.RoomListing, error) {
	if p.ID == nil {
		return models.RoomListing{}, fmt.Errorf("%w: property without id", ErrInvalidResponse)
	}
	price := p.PricePerNight
	if price == nil || *price == 0 {
		price = p.Price
	}
	if price == nil || *price < 0 {
		return models.RoomListing{}, fmt.Errorf("%w: property %d without price", ErrInvalidResponse, *p.ID)
	}
	maxGuests := p.MaxGuests
	if maxGuests < 1 {
		maxGuests = 1
	}
	return models.RoomListing{
		ID:            *p.ID,
		Title:         p.Title,
		Location:      p.Location,
		PricePerNight: *price,
		MaxGuests:     maxGuests,
		Amenities:     nonNil(p.Amenities),
		Images:        nonNil(p.Images),
		OwnerEmail:    p.OwnerEmail,
		Status:        strings.ToUpper(p.Status),
	}, nil
}

type bookingDTO struct {
	ID            *int64       `json:"id"`
	PropertyID    *int64       `json:"propertyId"`
	Property      *propertyDTO `json:"property"`
	UserEmail     string       `json:"userEmail"`
	CheckInDate   string       `json:"checkInDate"`
	CheckOutDate  string       `json:"checkOutDate"`
	Guests        int          `json:"guests"`
	Nights        int          `json:"nights"`
	Subtotal      float64      `json:"subtotal"`
	CleaningFee   float64      `json:"cleaningFee"`
	ServiceFee    float64      `json:"serviceFee"`
	TotalAmount   float64      `json:"totalAmount"`
	PaymentMethod string       `json:"paymentMethod"`
	Status        string       `json:"status"`
	CreatedAt     *time.Time   `json:"createdAt"`
}

func (b bookingDTO) toModel() (models.BookingRecord, error) {
	if b.ID == nil {
		return models.BookingRecord{}, fmt.Errorf("%w: booking without id", ErrInvalidResponse)
	}
	propertyID := b.PropertyID
	if propertyID == nil && b.Property != nil {
		propertyID = b.Property.ID
	}
	if propertyID == nil {
		return models.BookingRecord{}, fmt.Errorf("%w: booking %d without property", ErrInvalidResponse, *b.ID)
	}
	in, err := parseBackendDate(b.CheckInDate)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("%w: booking %d check-in: %v", ErrInvalidResponse, *b.ID, err)
	}
	out, err := parseBackendDate(b.CheckOutDate)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("%w: booking %d check-out: %v", ErrInvalidResponse, *b.ID, err)
	}
	rec := models.BookingRecord{
		ID:            *b.ID,
		PropertyID:    *propertyID,
		UserEmail:     b.UserEmail,
		CheckIn:       in,
		CheckOut:      out,
		Guests:        b.Guests,
		Nights:        b.Nights,
		Subtotal:      b.Subtotal,
		CleaningFee:   b.CleaningFee,
		ServiceFee:    b.ServiceFee,
		TotalAmount:   b.TotalAmount,
		PaymentMethod: b.PaymentMethod,
		Status:        models.ParseBookingStatus(b.Status),
	}
	if b.Property != nil {
		rec.PropertyTitle = b.Property.Title
	}
	if b.CreatedAt != nil {
		rec.CreatedAt = *b.CreatedAt
	}
	return rec, nil
}

// parseBackendDate accepts a plain date or a timestamp and keeps the calendar day.
func parseBackendDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		if d, err := civil.ParseDate(s[:10]); err == nil {
			return d, nil
		}
	}
	return civil.Date{}, fmt.Errorf("unparseable date %q", s)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

// LoginResult is a verified identity plus the backend token.
type LoginResult struct {
	Identity models.UserIdentity
	Token    string
}

func (r loginResponse) toModel() (LoginResult, error) {
	if r.User == nil || strings.TrimSpace(r.User.Email) == "" {
		return LoginResult{}, fmt.Errorf("%w: login without user", ErrInvalidResponse)
	}
	return LoginResult{
		Identity: models.UserIdentity{
			Email: r.User.Email,
			Name:  r.User.Name,
			Role:  models.ParseRole(r.User.Role),
		},
		Token: r.Token,
	}, nil
}

type errorBody struct {
	Message string `json:"message"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
