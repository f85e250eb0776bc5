package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomm8/middleware"
)

func (hb *HandlerBundle) MyBookingsHandler(c *gin.Context) {
	auth := middleware.WorkspaceFrom(c).Gate.Current()
	records, err := hb.backendFor(auth).UserBookings(c.Request.Context(), auth.Email)
	if err != nil {
		respondError(c, err, "Failed to load bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": records})
}

func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	auth := middleware.WorkspaceFrom(c).Gate.Current()
	if err := hb.backendFor(auth).CancelBooking(c.Request.Context(), id, auth.Email); err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "id": id})
}
