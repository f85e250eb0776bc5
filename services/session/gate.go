package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"roomm8/models"
	"roomm8/utils"
)

// ErrNothingToCheckout means no cart was persisted before login.
var ErrNothingToCheckout = errors.New("session: nothing to checkout")

const (
	DefaultRedirect = "/"
	CheckoutRoute   = "/checkout"
	LoginRoute      = "/login"
)

// Decision is the outcome of RequireAuth.
type Decision int

const (
	DecisionProceed Decision = iota
	DecisionRedirectToLogin
)

func (d Decision) String() string {
	if d == DecisionRedirectToLogin {
		return "redirect_to_login"
	}
	return "proceed"
}

type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
)

// Event is published to subscribers whenever the auth state changes.
type Event struct {
	Type    EventType
	Session models.SessionView
}

// Gate holds one browser's auth state and guards entry to checkout.
// Its methods are safe for concurrent use.
type Gate struct {
	id     string
	store  Store
	logger *zap.Logger
	Now    func() time.Time

	mu     sync.Mutex
	auth   models.AuthSession
	nextID int
	subs   map[int]func(Event)
}

func NewGate(id string, store Store, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		id:     id,
		store:  store,
		logger: logger,
		Now:    time.Now,
		auth:   models.AuthSession{Role: models.RoleGuest},
		subs:   make(map[int]func(Event)),
	}
}

// ID is the browser session ID the gate is bound to.
func (g *Gate) ID() string { return g.id }

// Restore loads a previously saved auth session. A missing or expired
// session leaves the gate unauthenticated.
func (g *Gate) Restore(ctx context.Context) error {
	sess, err := g.store.LoadSession(ctx, g.id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if sess.Expired(g.Now()) {
		return g.store.DeleteSession(ctx, g.id)
	}
	g.mu.Lock()
	g.auth = *sess
	g.mu.Unlock()
	return nil
}

// Current returns the auth session, downgraded to anonymous once the token expires.
func (g *Gate) Current() models.AuthSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.auth.Authenticated && g.auth.Expired(g.Now()) {
		g.auth = models.AuthSession{Role: models.RoleGuest}
	}
	return g.auth
}

func (g *Gate) IsAuthenticated() bool {
	return g.Current().Authenticated
}

// Login records a successful authentication and notifies subscribers.
func (g *Gate) Login(ctx context.Context, identity models.UserIdentity, token string) error {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return errors.New("session: login without email")
	}
	role := identity.Role
	if role == "" {
		role = models.RoleGuest
	}
	sess := models.AuthSession{
		Authenticated: true,
		Email:         email,
		Name:          identity.Name,
		Role:          role,
		Token:         token,
	}
	if exp, ok := utils.TokenExpiry(token); ok {
		sess.ExpiresAt = exp
	}
	if err := g.store.SaveSession(ctx, g.id, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	g.mu.Lock()
	g.auth = sess
	g.mu.Unlock()

	g.logger.Info("Session authenticated", zap.String("email", email), zap.String("role", string(role)))
	g.publish(Event{Type: EventLogin, Session: sess.View()})
	return nil
}

// Logout clears the auth state together with any pending cart and redirect.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.auth = models.AuthSession{Role: models.RoleGuest}
	g.mu.Unlock()

	if err := g.store.DeleteSession(ctx, g.id); err != nil {
		return err
	}
	if err := g.store.ClearPending(ctx, g.id); err != nil {
		return err
	}
	g.publish(Event{Type: EventLogout, Session: models.AuthSession{Role: models.RoleGuest}.View()})
	return nil
}

// RequireAuth lets an authenticated session proceed with storage untouched.
// Otherwise it persists the drafts and the route to return to, and only then
// answers DecisionRedirectToLogin.
func (g *Gate) RequireAuth(ctx context.Context, drafts []models.BookingDraft, route string) (Decision, error) {
	if g.IsAuthenticated() {
		return DecisionProceed, nil
	}
	if route == "" {
		route = CheckoutRoute
	}
	if err := g.store.SavePendingCart(ctx, g.id, drafts); err != nil {
		return DecisionRedirectToLogin, fmt.Errorf("failed to persist pending cart: %w", err)
	}
	if err := g.store.SaveRedirect(ctx, g.id, route); err != nil {
		return DecisionRedirectToLogin, fmt.Errorf("failed to persist redirect: %w", err)
	}
	g.logger.Debug("Checkout deferred until login",
		zap.String("sessionId", g.id),
		zap.Int("drafts", len(drafts)),
		zap.String("redirect", route))
	return DecisionRedirectToLogin, nil
}

// ConsumeRedirect returns the stored post-login route once, then DefaultRedirect.
func (g *Gate) ConsumeRedirect(ctx context.Context) (string, error) {
	route, err := g.store.TakeRedirect(ctx, g.id)
	if errors.Is(err, ErrNotFound) || (err == nil && route == "") {
		return DefaultRedirect, nil
	}
	if err != nil {
		return DefaultRedirect, err
	}
	return route, nil
}

// RestorePendingCart hands back the cart persisted by RequireAuth exactly once.
func (g *Gate) RestorePendingCart(ctx context.Context) ([]models.BookingDraft, error) {
	drafts, err := g.store.TakePendingCart(ctx, g.id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNothingToCheckout
	}
	if errors.Is(err, ErrCorruptCart) {
		g.logger.Warn("Discarding unreadable pending cart", zap.String("sessionId", g.id), zap.Error(err))
		return nil, ErrNothingToCheckout
	}
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, ErrNothingToCheckout
	}
	return drafts, nil
}

// Subscribe registers fn for auth events and returns its cancel func.
func (g *Gate) Subscribe(fn func(Event)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

func (g *Gate) publish(e Event) {
	g.mu.Lock()
	fns := make([]func(Event), 0, len(g.subs))
	for _, fn := range g.subs {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
