package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"roomm8/services/booking"
)

// Workspace is everything the gateway keeps for one browser: the auth gate
// and the live cart. HTTP requests for the same browser run concurrently, so
// handlers hold the workspace lock across every compound cart operation.
type Workspace struct {
	sync.Mutex

	Gate *Gate
	Cart *booking.Cart

	lastSeen time.Time
}

// Manager owns the workspaces of all live browser sessions.
type Manager struct {
	store  Store
	idle   time.Duration
	logger *zap.Logger
	Now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewManager(store Store, idle time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:      store,
		idle:       idle,
		logger:     logger,
		Now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating it and restoring any saved auth
// session on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Workspace, error) {
	now := m.Now()

	m.mu.Lock()
	m.evictLocked(now)
	if ws, ok := m.workspaces[id]; ok {
		ws.lastSeen = now
		m.mu.Unlock()
		return ws, nil
	}
	m.mu.Unlock()

	gate := NewGate(id, m.store, m.logger)
	gate.Now = m.Now
	if err := gate.Restore(ctx); err != nil {
		return nil, err
	}
	ws := &Workspace{Gate: gate, Cart: booking.NewCart(), lastSeen: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have created it while the session was loading.
	if existing, ok := m.workspaces[id]; ok {
		existing.lastSeen = now
		return existing, nil
	}
	m.workspaces[id] = ws
	return ws, nil
}

// Drop forgets the in-memory workspace; stored state is left alone.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, id)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

func (m *Manager) evictLocked(now time.Time) {
	if m.idle <= 0 {
		return
	}
	for id, ws := range m.workspaces {
		if now.Sub(ws.lastSeen) > m.idle {
			delete(m.workspaces, id)
			m.logger.Debug("Evicted idle workspace", zap.String("sessionId", id))
		}
	}
}
