// Package history keeps the ordered list of saved quotes in a single durable slot.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"cotizador/internal/quote"
	"cotizador/internal/storage"
)

var (
	// ErrDuplicate is returned when an identical record is already stored.
	ErrDuplicate = errors.New("history: identical quote already stored")
	// ErrEmptySelection is returned when a delete or export names no records.
	ErrEmptySelection = errors.New("history: no quotes selected")
)

// Store reads and rewrites the whole history on every operation.
type Store struct {
	slot   storage.Slot
	logger zerolog.Logger
}

// New wires a slot into a Store.
func New(slot storage.Slot, logger zerolog.Logger) *Store {
	return &Store{slot: slot, logger: logger.With().Str("component", "history").Logger()}
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]quote.Record, error) {
	return s.load(ctx)
}

// Find returns the records matching f in insertion order.
func (s *Store) Find(ctx context.Context, f Filter) ([]quote.Record, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if f.IsZero() {
		return records, nil
	}
	matched := make([]quote.Record, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// Append adds rec at the end unless an identical record exists.
func (s *Store) Append(ctx context.Context, rec quote.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range records {
		if existing.Equal(rec) {
			return ErrDuplicate
		}
	}

	next := make([]quote.Record, 0, len(records)+1)
	next = append(next, records...)
	next = append(next, rec)
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.logger.Debug().Str("id", rec.ID()).Int("size", len(next)).Msg("quote appended")
	return nil
}

// DeleteWhere removes every record for which match returns true.
// The slot is only rewritten when something was removed.
func (s *Store) DeleteWhere(ctx context.Context, match func(quote.Record) bool) (int, error) {
	records, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]quote.Record, 0, len(records))
	for _, rec := range records {
		if !match(rec) {
			kept = append(kept, rec)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.persist(ctx, kept); err != nil {
		return 0, err
	}

	s.logger.Debug().Int("removed", removed).Int("size", len(kept)).Msg("quotes deleted")
	return removed, nil
}

// DeleteSelected removes the records whose ID is in sel.
func (s *Store) DeleteSelected(ctx context.Context, sel Selection) (int, error) {
	if sel.Len() == 0 {
		return 0, ErrEmptySelection
	}
	return s.DeleteWhere(ctx, func(rec quote.Record) bool {
		return sel.Has(rec.ID())
	})
}

// Selected returns the records whose ID is in sel, in insertion order.
func (s *Store) Selected(ctx context.Context, sel Selection) ([]quote.Record, error) {
	if sel.Len() == 0 {
		return nil, ErrEmptySelection
	}
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	picked := make([]quote.Record, 0, sel.Len())
	for _, rec := range records {
		if sel.Has(rec.ID()) {
			picked = append(picked, rec)
		}
	}
	return picked, nil
}

// ClearAll drops every record and removes the slot itself.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Debug().Msg("history cleared")
	return nil
}

func (s *Store) load(ctx context.Context) ([]quote.Record, error) {
	data, found, err := s.slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !found || len(bytes.TrimSpace(data)) == 0 {
		return []quote.Record{}, nil
	}

	var records []quote.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Err(err).Msg("history slot unreadable, treating as empty")
		return []quote.Record{}, nil
	}
	if records == nil {
		records = []quote.Record{}
	}
	return records, nil
}

func (s *Store) persist(ctx context.Context, records []quote.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
