package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/session"
)

// MockStorage is an in-memory implementation of Storage for testing.
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*session.Snapshot
	catalogs  map[string]*catalog.Catalog
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*session.Snapshot),
		catalogs: make(map[string]*catalog.Catalog),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail session saves.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// AddCatalog registers a catalog under a name.
func (m *MockStorage) AddCatalog(name string, cat *catalog.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[name] = cat
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, snap *session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.sessions[id] = snap
	return nil
}

// LoadSession returns nil for an unknown id, without error.
func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) ListCatalogs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.catalogs))
	for name := range m.catalogs {
		names = append(names, name)
	}
	return names, nil
}

// GetCatalog returns nil for an unknown name, without error.
func (m *MockStorage) GetCatalog(ctx context.Context, name string) (*catalog.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalogs[name], nil
}
