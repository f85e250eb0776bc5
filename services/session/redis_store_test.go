package session

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomm8/models"
	"roomm8/utils"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func sampleDrafts() []models.BookingDraft {
	in := civil.Date{Year: 2026, Month: time.November, Day: 2}
	return []models.BookingDraft{
		{RoomID: 5, Title: "Loft", PricePerNight: 1000, Nights: 2, Guests: 2, MaxGuests: 4,
			CheckInDate: in, CheckOutDate: in.AddDays(2), CheckIn: "02 Nov", CheckOut: "04 Nov"},
		{RoomID: 5, Title: "Loft", PricePerNight: 1000, Nights: 1, Guests: 1, MaxGuests: 4,
			CheckInDate: in.AddDays(10), CheckOutDate: in.AddDays(11), CheckIn: "12 Nov", CheckOut: "13 Nov"},
	}
}

func TestRedisStoreSessionRoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	sess := models.AuthSession{Authenticated: true, Email: "a@b.c", Role: models.RoleAdmin, Token: "t"}
	require.NoError(t, store.SaveSession(ctx, "s1", sess))
	assert.True(t, mr.Exists(utils.AuthSessionPrefix+"s1"))

	got, err := store.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, *got)

	require.NoError(t, store.DeleteSession(ctx, "s1"))
	_, err = store.LoadSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorePendingCartIsReadOnce(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	drafts := sampleDrafts()
	require.NoError(t, store.SavePendingCart(ctx, "s1", drafts))

	got, err := store.TakePendingCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, drafts, got)
	assert.False(t, mr.Exists(utils.PendingCartPrefix+"s1"))

	_, err = store.TakePendingCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreRedirectAndClear(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRedirect(ctx, "s1", "/checkout"))
	route, err := store.TakeRedirect(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/checkout", route)

	_, err = store.TakeRedirect(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SaveRedirect(ctx, "s1", "/checkout"))
	require.NoError(t, store.SavePendingCart(ctx, "s1", sampleDrafts()))
	require.NoError(t, store.ClearPending(ctx, "s1"))
	_, err = store.TakeRedirect(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.TakePendingCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreKeysExpire(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SavePendingCart(ctx, "s1", sampleDrafts()))
	mr.FastForward(2 * time.Hour)

	_, err := store.TakePendingCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnreadablePendingCartMeansNothingToCheckout(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set(utils.PendingCartPrefix+"s1", "{not json"))

	_, err := store.TakePendingCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrCorruptCart)
	assert.False(t, mr.Exists(utils.PendingCartPrefix+"s1"))

	require.NoError(t, mr.Set(utils.PendingCartPrefix+"s1", "[1,2"))
	gate := NewGate("s1", store, nil)
	_, err = gate.RestorePendingCart(ctx)
	assert.ErrorIs(t, err, ErrNothingToCheckout)
}
