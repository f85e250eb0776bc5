package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomm8/models"
)

var testIdentity = models.UserIdentity{Email: "guest@example.com", Name: "Guest", Role: models.RoleGuest}

func TestRequireAuthPersistsCartWhenAnonymous(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()
	gate := NewGate("s1", store, nil)

	drafts := sampleDrafts()
	decision, err := gate.RequireAuth(ctx, drafts, "")
	require.NoError(t, err)
	assert.Equal(t, DecisionRedirectToLogin, decision)

	require.NoError(t, gate.Login(ctx, testIdentity, "opaque"))

	route, err := gate.ConsumeRedirect(ctx)
	require.NoError(t, err)
	assert.Equal(t, CheckoutRoute, route)

	restored, err := gate.RestorePendingCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, drafts, restored)

	_, err = gate.RestorePendingCart(ctx)
	assert.ErrorIs(t, err, ErrNothingToCheckout)

	route, err = gate.ConsumeRedirect(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultRedirect, route)
}

func TestRequireAuthLeavesStorageAloneWhenAuthenticated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	gate := NewGate("s1", store, nil)
	require.NoError(t, gate.Login(ctx, testIdentity, "opaque"))

	decision, err := gate.RequireAuth(ctx, sampleDrafts(), "/checkout")
	require.NoError(t, err)
	assert.Equal(t, DecisionProceed, decision)

	_, err = store.TakePendingCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmptyPendingCartMeansNothingToCheckout(t *testing.T) {
	gate := NewGate("s1", NewMemoryStore(), nil)
	ctx := context.Background()

	_, err := gate.RequireAuth(ctx, nil, "/checkout")
	require.NoError(t, err)
	_, err = gate.RestorePendingCart(ctx)
	assert.ErrorIs(t, err, ErrNothingToCheckout)
}

func TestLogoutClearsPendingState(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	gate := NewGate("s1", store, nil)

	_, err := gate.RequireAuth(ctx, sampleDrafts(), "/checkout")
	require.NoError(t, err)
	require.NoError(t, gate.Login(ctx, testIdentity, "opaque"))
	require.NoError(t, gate.Logout(ctx))

	assert.False(t, gate.IsAuthenticated())
	_, err = gate.RestorePendingCart(ctx)
	assert.ErrorIs(t, err, ErrNothingToCheckout)
	_, err = store.LoadSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribeReceivesAuthEvents(t *testing.T) {
	gate := NewGate("s1", NewMemoryStore(), nil)
	ctx := context.Background()

	var events []Event
	cancel := gate.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, gate.Login(ctx, testIdentity, "opaque"))
	require.NoError(t, gate.Logout(ctx))
	cancel()
	require.NoError(t, gate.Login(ctx, testIdentity, "opaque"))

	require.Len(t, events, 2)
	assert.Equal(t, EventLogin, events[0].Type)
	assert.Equal(t, "guest@example.com", events[0].Session.Email)
	assert.Equal(t, EventLogout, events[1].Type)
	assert.False(t, events[1].Session.Authenticated)
}

func TestRestoreSkipsExpiredSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveSession(ctx, "s1", models.AuthSession{
		Authenticated: true, Email: "a@b.c", Role: models.RoleGuest, ExpiresAt: now.Add(-time.Minute),
	}))

	gate := NewGate("s1", store, nil)
	gate.Now = func() time.Time { return now }
	require.NoError(t, gate.Restore(ctx))
	assert.False(t, gate.IsAuthenticated())
}

func TestCurrentDowngradesOnExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	gate := NewGate("s1", NewMemoryStore(), nil)
	gate.Now = func() time.Time { return now }
	require.NoError(t, gate.Login(context.Background(), testIdentity, "opaque"))

	gate.mu.Lock()
	gate.auth.ExpiresAt = now.Add(time.Minute)
	gate.mu.Unlock()
	assert.True(t, gate.IsAuthenticated())

	now = now.Add(2 * time.Minute)
	assert.False(t, gate.IsAuthenticated())
}

func TestManagerRestoresSavedSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, "s1", models.AuthSession{Authenticated: true, Email: "a@b.c", Role: models.RoleAdmin}))

	m := NewManager(store, time.Hour, nil)
	ws, err := m.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ws.Gate.IsAuthenticated())
	assert.Equal(t, models.RoleAdmin, ws.Gate.Current().Role)

	again, err := m.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, ws, again)
}

func TestManagerEvictsIdleWorkspaces(t *testing.T) {
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	m := NewManager(NewMemoryStore(), time.Minute, nil)
	m.Now = func() time.Time { return now }
	ctx := context.Background()

	_, err := m.Get(ctx, "old")
	require.NoError(t, err)
	now = now.Add(5 * time.Minute)
	_, err = m.Get(ctx, "new")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
}
