package services

import (
	"context"
	"sync"
	"time"
)

// MockTokenStore is an in-memory TokenStore for testing
type MockTokenStore struct {
	values  map[string]string
	expires map[string]time.Time
	mu      sync.RWMutex

	// Err, when set, is returned by every operation
	Err error
}

// NewMockTokenStore creates an empty mock token store
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

// Set stores value under key
func (m *MockTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	if ttl > 0 {
		m.expires[key] = time.Now().Add(ttl)
	} else {
		delete(m.expires, key)
	}
	return nil
}

// Get returns the stored value or ErrTokenNotFound once expired or missing
func (m *MockTokenStore) Get(ctx context.Context, key string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	if exp, ok := m.expires[key]; ok && time.Now().After(exp) {
		return "", ErrTokenNotFound
	}
	return value, nil
}

// Delete removes keys
func (m *MockTokenStore) Delete(ctx context.Context, keys ...string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
		delete(m.expires, key)
	}
	return nil
}

// Has reports whether key currently holds a value (for testing assertions)
func (m *MockTokenStore) Has(key string) bool {
	_, err := m.Get(context.Background(), key)
	return err == nil
}
