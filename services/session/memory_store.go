package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"roomm8/models"
)

// MemoryStore is an in-process Store for development and tests. Values are
// JSON-encoded so callers never share memory with the store.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string][]byte
	carts     map[string][]byte
	redirects map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string][]byte),
		carts:     make(map[string][]byte),
		redirects: make(map[string]string),
	}
}

func (m *MemoryStore) SaveSession(_ context.Context, id string, s models.AuthSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = data
	return nil
}

func (m *MemoryStore) LoadSession(_ context.Context, id string) (*models.AuthSession, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var s models.AuthSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) SavePendingCart(_ context.Context, id string, drafts []models.BookingDraft) error {
	if drafts == nil {
		drafts = []models.BookingDraft{}
	}
	data, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[id] = data
	return nil
}

func (m *MemoryStore) TakePendingCart(_ context.Context, id string) ([]models.BookingDraft, error) {
	m.mu.Lock()
	data, ok := m.carts[id]
	delete(m.carts, id)
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var drafts []models.BookingDraft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return drafts, nil
}

func (m *MemoryStore) SaveRedirect(_ context.Context, id string, route string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirects[id] = route
	return nil
}

func (m *MemoryStore) TakeRedirect(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	route, ok := m.redirects[id]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.redirects, id)
	return route, nil
}

func (m *MemoryStore) ClearPending(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, id)
	delete(m.redirects, id)
	return nil
}
