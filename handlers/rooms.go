package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/middleware"
	"roomm8/models"
	"roomm8/services/backend"
	"roomm8/services/booking"
	"roomm8/services/listing"
	"roomm8/utils"
)

type availabilityInput struct {
	CheckInDate string `json:"checkInDate"`
	Nights      int    `json:"nights"`
}

func (hb *HandlerBundle) ListRoomsHandler(c *gin.Context) {
	rooms, err := hb.Catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load rooms")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (hb *HandlerBundle) GetRoomHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, ok := hb.lookupRoom(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, room)
}

// CheckAvailabilityHandler checks a stay against the bookings the caller can
// see plus the drafts already in the cart.
func (hb *HandlerBundle) CheckAvailabilityHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input availabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid availability request", err)
		return
	}

	ws := middleware.WorkspaceFrom(c)
	existing, err := hb.visibleBookings(c.Request.Context(), ws.Gate.Current())
	if err != nil {
		respondError(c, err, "Failed to load bookings")
		return
	}

	ws.Lock()
	existing = append(existing, booking.DraftsAsBookings(ws.Cart.Items())...)
	ws.Unlock()

	result, err := booking.CheckAvailabilityString(id, input.CheckInDate, input.Nights, existing)
	if err != nil {
		respondError(c, err, "Failed to check availability")
		return
	}
	c.JSON(http.StatusOK, result)
}

// visibleBookings returns the bookings the session may see: everything for
// admins, the user's own bookings otherwise, nothing when anonymous.
func (hb *HandlerBundle) visibleBookings(ctx context.Context, auth models.AuthSession) ([]models.ExistingBooking, error) {
	if !auth.Authenticated {
		return nil, nil
	}
	api := hb.backendFor(auth)
	var (
		records []models.BookingRecord
		err     error
	)
	if auth.Role == models.RoleAdmin {
		records, err = api.AllBookings(ctx)
	} else {
		records, err = api.UserBookings(ctx, auth.Email)
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.ExistingBooking, 0, len(records))
	for _, r := range records {
		out = append(out, r.Existing())
	}
	return out, nil
}

func (hb *HandlerBundle) lookupRoom(c *gin.Context, id int64) (*models.RoomListing, bool) {
	room, err := hb.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		var apiErr *backend.APIError
		if errors.Is(err, listing.ErrRoomNotFound) || (errors.As(err, &apiErr) && apiErr.NotFound()) {
			utils.JSONErrorResponse(c, http.StatusNotFound, utils.ErrorResponse{Message: "Room not found"})
			return nil, false
		}
		respondError(c, err, "Failed to load room")
		return nil, false
	}
	return room, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		getLogger(c).Debug("Invalid id parameter", zap.String("id", c.Param("id")))
		badRequest(c, "Invalid id", err)
		return 0, false
	}
	return id, true
}
