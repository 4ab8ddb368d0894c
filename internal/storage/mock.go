package storage

import (
	"context"
	"sync"

	"github.com/jwebster45206/dreambound/pkg/state"
)

// MockStorage is an in-memory Storage for testing.
type MockStorage struct {
	mu        sync.RWMutex
	saves     map[string]*state.GameState
	pingError error
	saveError error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves: make(map[string]*state.GameState),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail writes with the given error.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveGame(ctx context.Context, slot string, gs *state.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	if existing, ok := m.saves[slot]; ok && existing.ID == gs.ID && existing.TurnCount > gs.TurnCount {
		return ErrStaleSave
	}
	m.saves[slot] = gs.DeepCopy()
	return nil
}

func (m *MockStorage) LoadGame(ctx context.Context, slot string) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.saves[slot]
	if !ok {
		return nil, nil
	}
	return gs.DeepCopy(), nil
}

func (m *MockStorage) DeleteGame(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, slot)
	return nil
}

func (m *MockStorage) ListSlots(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots := make([]string, 0, len(m.saves))
	for slot := range m.saves {
		slots = append(slots, slot)
	}
	return slots, nil
}
