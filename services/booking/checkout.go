package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"roomm8/models"
)

const (
	DefaultPaymentMethod = "CARD"
	conflictMessage      = "These dates are already booked by another customer. Please select different dates."
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseFailed     Phase = "failed"
	PhaseCompleted  Phase = "completed"
)

// State is a snapshot of a checkout's progress. Index is the draft being
// submitted, or the one that failed.
type State struct {
	Phase  Phase  `json:"phase"`
	Index  int    `json:"index"`
	Reason string `json:"reason,omitempty"`
}

// Reconciler turns cart drafts into persisted bookings, one at a time.
type Reconciler struct {
	Backend BookingCreator
	Now     func() time.Time
	// OnTransition, when set, observes every state change.
	OnTransition func(State)
	logger       *zap.Logger
}

func NewReconciler(backend BookingCreator, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Backend: backend, Now: time.Now, logger: logger}
}

type resolvedDraft struct {
	draft    models.BookingDraft
	checkIn  civil.Date
	checkOut civil.Date
}

// Checkout validates every draft, then submits them in order. The first
// failure stops the run; drafts already accepted by the backend stay
// persisted and the caller's slice is never modified.
func (r *Reconciler) Checkout(ctx context.Context, userEmail, paymentMethod string, drafts []models.BookingDraft) (*models.Receipt, error) {
	r.transition(State{Phase: PhaseIdle})

	if len(drafts) == 0 {
		return nil, NewValidationError("cart is empty")
	}
	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return nil, NewValidationError("user email is required")
	}
	method := normalizePaymentMethod(paymentMethod)

	today := civil.DateOf(r.now())
	resolved := make([]resolvedDraft, len(drafts))
	for i, d := range drafts {
		in, out, err := resolveStay(d.CheckInDate, d.CheckOutDate, d.CheckIn, d.CheckOut, d.Nights, today)
		if err != nil {
			return nil, &CheckoutError{Index: i, RoomID: d.RoomID, Kind: KindOf(err), Message: MessageOf(err), Err: err}
		}
		resolved[i] = resolvedDraft{draft: d, checkIn: in, checkOut: out}
	}

	receipt := &models.Receipt{PaymentMethod: method, Lines: make([]models.ReceiptLine, 0, len(resolved))}
	for i, rd := range resolved {
		r.transition(State{Phase: PhaseSubmitting, Index: i})

		price := PriceLine(rd.draft)
		req := models.CreateBookingRequest{
			PropertyID:    rd.draft.RoomID,
			UserEmail:     userEmail,
			CheckInDate:   rd.checkIn.String(),
			CheckOutDate:  rd.checkOut.String(),
			Guests:        rd.draft.Guests,
			Nights:        rd.draft.Nights,
			Subtotal:      price.Subtotal,
			CleaningFee:   0,
			ServiceFee:    price.ServiceFee,
			TotalAmount:   price.Total,
			PaymentMethod: method,
		}

		record, err := r.Backend.CreateBooking(ctx, req)
		if err != nil {
			cerr := submissionError(i, rd.draft.RoomID, err)
			r.logger.Warn("Checkout aborted",
				zap.Int("index", i),
				zap.Int64("roomId", rd.draft.RoomID),
				zap.String("kind", string(cerr.Kind)),
				zap.Error(err))
			r.transition(State{Phase: PhaseFailed, Index: i, Reason: cerr.Message})
			return nil, cerr
		}

		line := models.ReceiptLine{
			RoomID:       rd.draft.RoomID,
			Title:        rd.draft.Title,
			CheckInDate:  req.CheckInDate,
			CheckOutDate: req.CheckOutDate,
			Guests:       rd.draft.Guests,
			Nights:       rd.draft.Nights,
			Subtotal:     price.Subtotal,
			ServiceFee:   price.ServiceFee,
			Total:        price.Total,
		}
		if record != nil {
			line.BookingID = record.ID
		}
		receipt.Lines = append(receipt.Lines, line)
		receipt.Subtotal += price.Subtotal
		receipt.Taxes += price.ServiceFee
		receipt.Total += price.Total
		receipt.TotalGuests += rd.draft.Guests
	}

	r.transition(State{Phase: PhaseCompleted, Index: len(resolved) - 1})
	r.logger.Info("Checkout completed",
		zap.String("userEmail", userEmail),
		zap.Int("bookings", len(receipt.Lines)),
		zap.Float64("total", receipt.Total))
	return receipt, nil
}

func submissionError(index int, roomID int64, err error) *CheckoutError {
	if isBackendConflict(err) {
		return &CheckoutError{Index: index, RoomID: roomID, Kind: KindConflict, Message: conflictMessage, Err: err}
	}
	return &CheckoutError{
		Index:   index,
		RoomID:  roomID,
		Kind:    KindBackend,
		Message: fmt.Sprintf("Booking failed: %s", err.Error()),
		Err:     err,
	}
}

func normalizePaymentMethod(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return DefaultPaymentMethod
	}
	return m
}

func (r *Reconciler) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Reconciler) transition(s State) {
	if r.OnTransition != nil {
		r.OnTransition(s)
	}
}
