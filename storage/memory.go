// Package storage provides durable key/value backends for session state.
//
// Three implementations cover the deployment spectrum: Memory for tests
// and single-run tools, File for a browser-profile-like local store that
// survives restarts, and Redis for shared deployments.
package storage

import (
	"context"
	"sync"

	rentroam "github.com/rentroam/rentroam-go"
)

// Memory is an in-memory Storage. Contents do not survive the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ rentroam.Storage = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value for key, with ok=false when absent.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
