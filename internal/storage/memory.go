package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps the payload in process memory.
type MemorySlot struct {
	mu    sync.Mutex
	data  []byte
	found bool

	// FailSave, when set, is returned by Save without touching the payload.
	FailSave error
}

// NewMemorySlot returns an empty slot, optionally seeded with a payload.
func NewMemorySlot(seed []byte) *MemorySlot {
	s := &MemorySlot{}
	if seed != nil {
		s.data = append([]byte(nil), seed...)
		s.found = true
	}
	return s
}

func (s *MemorySlot) Load(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.found {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

func (s *MemorySlot) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	s.data = append([]byte(nil), data...)
	s.found = true
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.found = false
	return nil
}

// Exists reports whether the slot currently holds a payload.
func (s *MemorySlot) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.found
}

var _ Slot = (*MemorySlot)(nil)
