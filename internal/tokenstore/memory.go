package tokenstore

import (
	"context"
	"sync"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

// In-memory store: tokens are lost when the process stops
type MemoryStore struct {
	mu     sync.RWMutex
	values map[models.TokenKind]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[models.TokenKind]string, len(Kinds))}
}

func (s *MemoryStore) Set(_ context.Context, kind models.TokenKind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[kind] = value
	return nil
}

func (s *MemoryStore) Get(_ context.Context, kind models.TokenKind) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values[kind], nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range Kinds {
		delete(s.values, kind)
	}
	return nil
}
