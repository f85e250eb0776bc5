package models

// RoomListing is an advertised accommodation unit. Read-only for the gateway.
type RoomListing struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"pricePerNight"`
	MaxGuests     int      `json:"maxGuests"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	OwnerEmail    string   `json:"ownerEmail,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// CoverImage returns the first image or a placeholder.
func (r RoomListing) CoverImage() string {
	if len(r.Images) > 0 && r.Images[0] != "" {
		return r.Images[0]
	}
	return DefaultRoomImage
}

const DefaultRoomImage = "https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=400"

// PropertyStatus values accepted by the admin status endpoint.
const (
	PropertyPending  = "PENDING"
	PropertyApproved = "APPROVED"
	PropertyRejected = "REJECTED"
)
