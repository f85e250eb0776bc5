package booking

import "roomm8/models"

// Fixed pricing policy. The cart preview and the persisted booking use
// different schedules; both are kept as observed.
const (
	CleaningFeeRate    = 0.10
	CartServiceFeeRate = 0.08
	CheckoutTaxRate    = 0.18
)

// SummarizeCart computes the cart-level price breakdown.
func SummarizeCart(drafts []models.BookingDraft) models.PriceSummary {
	var subtotal float64
	for _, d := range drafts {
		subtotal += d.Subtotal()
	}
	cleaning := subtotal * CleaningFeeRate
	service := subtotal * CartServiceFeeRate
	return models.PriceSummary{
		Subtotal:    subtotal,
		CleaningFee: cleaning,
		ServiceFee:  service,
		Total:       subtotal + cleaning + service,
	}
}

// LinePrice is the checkout-level pricing of a single draft.
type LinePrice struct {
	Subtotal   float64
	ServiceFee float64
	Total      float64
}

// PriceLine applies the flat checkout tax. Values are left unrounded.
func PriceLine(d models.BookingDraft) LinePrice {
	subtotal := d.Subtotal()
	return LinePrice{
		Subtotal:   subtotal,
		ServiceFee: subtotal * CheckoutTaxRate,
		Total:      subtotal * (1 + CheckoutTaxRate),
	}
}
