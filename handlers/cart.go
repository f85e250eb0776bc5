package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/middleware"
	"roomm8/models"
	"roomm8/services/booking"
	"roomm8/services/session"
)

type addItemInput struct {
	RoomID      int64  `json:"roomId" binding:"required"`
	CheckInDate string `json:"checkInDate"`
	Nights      int    `json:"nights"`
	Guests      int    `json:"guests"`
}

type guestsInput struct {
	Guests *int `json:"guests"`
	// Delta is +1 or -1 for the stepper buttons; ignored when Guests is set.
	Delta int `json:"delta"`
}

type cartView struct {
	Items       []models.BookingDraft `json:"items"`
	Summary     models.PriceSummary   `json:"summary"`
	TotalGuests int                   `json:"totalGuests"`
}

func viewCart(ws *session.Workspace) cartView {
	return cartView{
		Items:       ws.Cart.Items(),
		Summary:     ws.Cart.PriceSummary(),
		TotalGuests: ws.Cart.TotalGuests(),
	}
}

func (hb *HandlerBundle) GetCartHandler(c *gin.Context) {
	ws := middleware.WorkspaceFrom(c)
	ws.Lock()
	defer ws.Unlock()
	c.JSON(http.StatusOK, viewCart(ws))
}

// AddCartItemHandler checks availability before adding a stay to the cart.
func (hb *HandlerBundle) AddCartItemHandler(c *gin.Context) {
	logger := getLogger(c)
	ws := middleware.WorkspaceFrom(c)

	var input addItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid cart item", err)
		return
	}
	checkIn, err := booking.ParseISODate(input.CheckInDate)
	if err != nil {
		respondError(c, err, "Invalid check-in date")
		return
	}

	room, ok := hb.lookupRoom(c, input.RoomID)
	if !ok {
		return
	}
	existing, err := hb.visibleBookings(c.Request.Context(), ws.Gate.Current())
	if err != nil {
		respondError(c, err, "Failed to load bookings")
		return
	}

	ws.Lock()
	defer ws.Unlock()

	existing = append(existing, booking.DraftsAsBookings(ws.Cart.Items())...)
	result, err := booking.CheckAvailability(room.ID, checkIn, input.Nights, existing)
	if err != nil {
		respondError(c, err, "Failed to check availability")
		return
	}
	if !result.Available {
		respondError(c, result.ConflictError(), "Room unavailable")
		return
	}

	draft, err := booking.NewDraft(*room, checkIn, input.Nights, input.Guests)
	if err != nil {
		respondError(c, err, "Invalid cart item")
		return
	}
	ws.Cart.Add(draft)
	logger.Info("Added stay to cart", zap.Int64("roomId", room.ID), zap.String("checkIn", checkIn.String()), zap.Int("nights", input.Nights))
	c.JSON(http.StatusCreated, viewCart(ws))
}

func (hb *HandlerBundle) RemoveCartItemHandler(c *gin.Context) {
	index, ok := cartIndex(c)
	if !ok {
		return
	}
	ws := middleware.WorkspaceFrom(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Cart.Remove(index); err != nil {
		respondError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, viewCart(ws))
}

// UpdateGuestsHandler stores the requested guest count clamped to the room's capacity.
func (hb *HandlerBundle) UpdateGuestsHandler(c *gin.Context) {
	index, ok := cartIndex(c)
	if !ok {
		return
	}
	var input guestsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid guests update", err)
		return
	}
	ws := middleware.WorkspaceFrom(c)
	ws.Lock()
	defer ws.Unlock()

	var err error
	switch {
	case input.Guests != nil:
		_, err = ws.Cart.UpdateGuests(index, *input.Guests)
	case input.Delta > 0:
		_, err = ws.Cart.IncrementGuests(index)
	case input.Delta < 0:
		_, err = ws.Cart.DecrementGuests(index)
	default:
		badRequest(c, "guests or delta is required", nil)
		return
	}
	if err != nil {
		respondError(c, err, "Failed to update guests")
		return
	}
	c.JSON(http.StatusOK, viewCart(ws))
}

func cartIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "Invalid cart position", err)
		return 0, false
	}
	return index, true
}
