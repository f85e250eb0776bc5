package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomm8/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", Options{Timeout: 2 * time.Second, FailureThreshold: 2, OpenTimeout: time.Minute}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestApprovedPropertiesValidatesRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/properties/approved", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "title": "Loft", "location": "Lisbon", "pricePerNight": 80, "maxGuests": 3, "images": []string{"a.jpg"}},
			{"id": 2, "title": "Hut", "price": 40},
			{"title": "No id", "pricePerNight": 10},
		})
	})

	rooms, err := client.ApprovedProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, models.RoomListing{
		ID: 1, Title: "Loft", Location: "Lisbon", PricePerNight: 80, MaxGuests: 3,
		Amenities: []string{}, Images: []string{"a.jpg"},
	}, rooms[0])
	assert.Equal(t, 40.0, rooms[1].PricePerNight)
	assert.Equal(t, 1, rooms[1].MaxGuests)
}

func TestCreateBookingSendsBearerAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req models.CreateBookingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5), req.PropertyID)
		assert.Equal(t, "2026-11-01", req.CheckInDate)

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id": 77, "propertyId": 5, "userEmail": req.UserEmail,
			"checkInDate": req.CheckInDate, "checkOutDate": req.CheckOutDate, "status": "CONFIRMED",
		})
	})

	rec, err := client.WithToken("tok").CreateBooking(context.Background(), models.CreateBookingRequest{
		PropertyID: 5, UserEmail: "a@b.c", CheckInDate: "2026-11-01", CheckOutDate: "2026-11-03",
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(77), rec.ID)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.November, Day: 3}, rec.CheckOut)
	assert.Equal(t, models.BookingConfirmed, rec.Status)
}

func TestCreateBookingToleratesUnusableSuccessBody(t *testing.T) {
	bodies := []string{`{"id": "seventy`, `{"id": 77, "propertyId": 5, "checkInDate": "soon"}`}
	for _, body := range bodies {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(body))
		})

		rec, err := client.CreateBooking(context.Background(), models.CreateBookingRequest{PropertyID: 5})
		assert.NoError(t, err, body)
		assert.Nil(t, rec, body)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Property not available for selected dates"})
	})

	_, err := client.CreateBooking(context.Background(), models.CreateBookingRequest{PropertyID: 5})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Conflict())
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestErrorMessageFallsBackToStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := client.CancelBooking(context.Background(), 9, "a@b.c")
	require.Error(t, err)
	assert.Equal(t, "HTTP error! status: 403", err.Error())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
	assert.False(t, apiErr.Conflict())
}

func TestUserBookingsNormalisesStatusAndDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/user/a@b.c", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "property": map[string]interface{}{"id": 5, "title": "Loft", "pricePerNight": 1}, "checkInDate": "2026-01-10T00:00:00", "checkOutDate": "2026-01-12", "status": "CANCELLED"},
			{"id": 2, "propertyId": 6, "checkInDate": "garbage", "checkOutDate": "2026-01-12"},
		})
	})

	records, err := client.UserBookings(context.Background(), "a@b.c")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(5), records[0].PropertyID)
	assert.Equal(t, "Loft", records[0].PropertyTitle)
	assert.Equal(t, models.BookingCancelled, records[0].Status)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.January, Day: 10}, records[0].CheckIn)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token": "jwt",
			"user":  map[string]string{"email": "o@b.c", "name": "Owner", "role": "PROPERTY_OWNER"},
		})
	})

	res, err := client.Login(context.Background(), "o@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, models.RolePropertyOwner, res.Identity.Role)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.ApprovedProperties(ctx)
		require.Error(t, err)
		assert.Equal(t, "db down", err.Error())
	}

	_, err := client.ApprovedProperties(ctx)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "open", client.BreakerState())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Property not found"})
	})

	for i := 0; i < 4; i++ {
		_, err := client.Property(context.Background(), 3)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.NotFound())
	}
	assert.Equal(t, "closed", client.BreakerState())
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, Options{Timeout: time.Second}, nil)
	_, err := client.ApprovedProperties(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestDeleteAndStatusEndpoints(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, client.DeleteProperty(ctx, 4, "o@b.c"))
	require.NoError(t, client.UpdatePropertyStatus(ctx, 4, models.PropertyApproved))
	assert.Equal(t, []string{
		"DELETE /api/properties/4/owner?ownerEmail=o%40b.c",
		"PUT /api/properties/4/status?status=APPROVED",
	}, seen)
}
