package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	rec      Record
	otpToken string
}

// NewMemory builds an in-process store. Nothing survives a restart; it is
// meant for tests and ephemeral runs.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) SaveSession(_ context.Context, rec Record) error {
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) LoadSession(context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec, nil
}

func (s *memoryStore) ClearSession(context.Context) error {
	s.mu.Lock()
	s.rec = Record{}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) SaveOTPToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.otpToken = token
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) LoadOTPToken(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.otpToken, nil
}

func (s *memoryStore) ClearOTPToken(context.Context) error {
	s.mu.Lock()
	s.otpToken = ""
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}
