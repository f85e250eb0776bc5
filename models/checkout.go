package models

// PriceSummary is the cart-level breakdown shown before checkout.
type PriceSummary struct {
	Subtotal    float64 `json:"subtotal"`
	CleaningFee float64 `json:"cleaningFee"`
	ServiceFee  float64 `json:"serviceFee"`
	Total       float64 `json:"total"`
}

// ReceiptLine is one submitted draft with its checkout-level pricing.
type ReceiptLine struct {
	RoomID       int64   `json:"roomId" bson:"roomId"`
	Title        string  `json:"title" bson:"title"`
	CheckInDate  string  `json:"checkInDate" bson:"checkInDate"`
	CheckOutDate string  `json:"checkOutDate" bson:"checkOutDate"`
	Guests       int     `json:"guests" bson:"guests"`
	Nights       int     `json:"nights" bson:"nights"`
	Subtotal     float64 `json:"subtotal" bson:"subtotal"`
	ServiceFee   float64 `json:"serviceFee" bson:"serviceFee"`
	Total        float64 `json:"total" bson:"total"`
	BookingID    int64   `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
}

// Receipt is what a completed checkout yields.
type Receipt struct {
	PaymentMethod string        `json:"paymentMethod"`
	Lines         []ReceiptLine `json:"lines"`
	Subtotal      float64       `json:"subtotal"`
	Taxes         float64       `json:"taxes"`
	Total         float64       `json:"total"`
	TotalGuests   int           `json:"totalGuests"`
}
