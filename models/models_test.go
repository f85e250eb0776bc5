package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingStatus(t *testing.T) {
	assert.Equal(t, BookingCancelled, ParseBookingStatus("CANCELLED"))
	assert.Equal(t, BookingCancelled, ParseBookingStatus("Cancelled"))
	assert.Equal(t, BookingConfirmed, ParseBookingStatus("CONFIRMED"))
	assert.Equal(t, BookingConfirmed, ParseBookingStatus(""))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RolePropertyOwner, ParseRole("PROPERTY_OWNER"))
	assert.Equal(t, RoleGuest, ParseRole("USER"))
	assert.Equal(t, RoleGuest, ParseRole(""))
}

func TestSessionViewDropsToken(t *testing.T) {
	s := AuthSession{Authenticated: true, Email: "a@b.c", Token: "secret", Role: RoleGuest}
	v := s.View()
	assert.True(t, v.Authenticated)
	assert.Equal(t, "a@b.c", v.Email)
}

func TestCoverImageFallsBack(t *testing.T) {
	assert.Equal(t, DefaultRoomImage, RoomListing{}.CoverImage())
	assert.Equal(t, "x.jpg", RoomListing{Images: []string{"x.jpg"}}.CoverImage())
}
