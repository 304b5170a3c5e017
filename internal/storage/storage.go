// Package storage holds the key/value slot where the session survives between runs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/frahmantamala/billed/internal/core/datamodel/session"
)

var ErrNoSession = errors.New("no session stored")

// Storage is a string key/value store with last-write-wins semantics.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// Len is used by tests to assert that nothing was written.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// LoadSession reads the persisted session and its token.
func LoadSession(ctx context.Context, s Storage) (session.Session, string, error) {
	raw, ok, err := s.GetItem(ctx, session.StorageKeyUser)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || raw == "" {
		return session.Session{}, "", ErrNoSession
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return session.Session{}, "", fmt.Errorf("failed to decode session: %w", err)
	}

	token, _, err := s.GetItem(ctx, session.StorageKeyToken)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("failed to read token: %w", err)
	}
	return sess, token, nil
}

// Token returns the stored token, or an empty string when there is none.
func Token(ctx context.Context, s Storage) (string, error) {
	token, _, err := s.GetItem(ctx, session.StorageKeyToken)
	return token, err
}
