package models

import "time"

// CheckoutRecord is the persisted copy of a completed checkout receipt.
type CheckoutRecord struct {
	ID            string        `bson:"id" json:"id"`
	UserEmail     string        `bson:"userEmail" json:"userEmail"`
	PaymentMethod string        `bson:"paymentMethod" json:"paymentMethod"`
	Lines         []ReceiptLine `bson:"lines" json:"lines"`
	Subtotal      float64       `bson:"subtotal" json:"subtotal"`
	Taxes         float64       `bson:"taxes" json:"taxes"`
	Total         float64       `bson:"total" json:"total"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}

// NewCheckoutRecord copies a receipt into a record for the given user.
func NewCheckoutRecord(userEmail string, r Receipt) CheckoutRecord {
	return CheckoutRecord{
		UserEmail:     userEmail,
		PaymentMethod: r.PaymentMethod,
		Lines:         r.Lines,
		Subtotal:      r.Subtotal,
		Taxes:         r.Taxes,
		Total:         r.Total,
	}
}
