package storage

import (
	"context"
	"errors"
)

// DefaultKey names the slot that holds the quote history.
const DefaultKey = "historialCotizaciones"

var (
	// ErrNotConfigured indicates the backing client was not initialised.
	ErrNotConfigured = errors.New("storage: backend not configured")
)

// Slot is a single named, durable value that is always replaced as a whole.
type Slot interface {
	// Load returns the stored payload. found is false when the slot does not exist.
	Load(ctx context.Context) (data []byte, found bool, err error)
	// Save replaces the payload.
	Save(ctx context.Context, data []byte) error
	// Clear removes the slot entirely.
	Clear(ctx context.Context) error
}
