package booking

import (
	"fmt"

	"cloud.google.com/go/civil"

	"roomm8/models"
)

const defaultGuests = 2

// Cart is the ordered list of drafts for one browser session. Insertion order
// is display order and the same room may appear more than once. Cart is not
// safe for concurrent use; the owning workspace serialises access.
type Cart struct {
	drafts []models.BookingDraft
}

func NewCart(drafts ...models.BookingDraft) *Cart {
	c := &Cart{}
	c.Replace(drafts)
	return c
}

// NewDraft builds a draft from a listing, copying the display fields at
// selection time.
func NewDraft(room models.RoomListing, checkIn civil.Date, nights, guests int) (models.BookingDraft, error) {
	if !checkIn.IsValid() {
		return models.BookingDraft{}, NewValidationError("Please select check-in date")
	}
	if nights < 1 {
		return models.BookingDraft{}, NewValidationError("nights must be at least 1")
	}
	if guests == 0 {
		guests = defaultGuests
	}
	checkOut := checkIn.AddDays(nights)
	return models.BookingDraft{
		RoomID:        room.ID,
		Title:         room.Title,
		Location:      room.Location,
		PricePerNight: room.PricePerNight,
		Image:         room.CoverImage(),
		MaxGuests:     room.MaxGuests,
		Guests:        ClampGuests(guests, room.MaxGuests),
		Nights:        nights,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		CheckIn:       FormatDisplay(checkIn),
		CheckOut:      FormatDisplay(checkOut),
	}, nil
}

// ClampGuests keeps n within [1, maxGuests].
func ClampGuests(n, maxGuests int) int {
	if maxGuests < 1 {
		maxGuests = 1
	}
	if n < 1 {
		return 1
	}
	if n > maxGuests {
		return maxGuests
	}
	return n
}

// Add appends without de-duplication.
func (c *Cart) Add(d models.BookingDraft) {
	d.Guests = ClampGuests(d.Guests, d.MaxGuests)
	c.drafts = append(c.drafts, d)
}

// Remove drops the draft at index, keeping the order of the rest.
func (c *Cart) Remove(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.drafts = append(c.drafts[:index:index], c.drafts[index+1:]...)
	return nil
}

// UpdateGuests stores n clamped into the room's bounds and returns the stored value.
func (c *Cart) UpdateGuests(index, n int) (int, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	d := &c.drafts[index]
	d.Guests = ClampGuests(n, d.MaxGuests)
	return d.Guests, nil
}

func (c *Cart) IncrementGuests(index int) (int, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	return c.UpdateGuests(index, c.drafts[index].Guests+1)
}

func (c *Cart) DecrementGuests(index int) (int, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}
	return c.UpdateGuests(index, c.drafts[index].Guests-1)
}

// Items returns a copy of the drafts in display order.
func (c *Cart) Items() []models.BookingDraft {
	out := make([]models.BookingDraft, len(c.drafts))
	copy(out, c.drafts)
	return out
}

func (c *Cart) Len() int { return len(c.drafts) }

func (c *Cart) Clear() { c.drafts = nil }

// Replace swaps the whole content, e.g. when a persisted cart is restored.
func (c *Cart) Replace(drafts []models.BookingDraft) {
	c.drafts = nil
	for _, d := range drafts {
		c.Add(d)
	}
}

func (c *Cart) PriceSummary() models.PriceSummary {
	return SummarizeCart(c.drafts)
}

func (c *Cart) TotalGuests() int {
	total := 0
	for _, d := range c.drafts {
		total += d.Guests
	}
	return total
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.drafts) {
		return NewValidationError(fmt.Sprintf("no cart item at position %d", index))
	}
	return nil
}
