// Package service orchestrates pricing, history, and export for both the CLI
// and the local API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"cotizador/internal/export"
	"cotizador/internal/history"
	"cotizador/internal/pricing"
	"cotizador/internal/quote"
)

// Service drives the quote workflow against one history store.
type Service struct {
	store    *history.Store
	exporter *export.Exporter
	clock    quote.Clock
	logger   zerolog.Logger

	// mu serialises read-modify-write cycles on the slot.
	mu sync.Mutex
}

// New constructs the service.
func New(store *history.Store, exporter *export.Exporter, clock quote.Clock, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		exporter: exporter,
		clock:    clock,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// Options lists the selectable property types and locations.
type Options struct {
	PropertyTypes []pricing.Option `json:"propiedades"`
	Locations     []pricing.Option `json:"ubicaciones"`
}

// Options returns the form choices.
func (s *Service) Options() Options {
	return Options{
		PropertyTypes: pricing.PropertyOptions(),
		Locations:     append([]pricing.Option(nil), pricing.LocationOptions...),
	}
}

// Calculate validates the form and prices it.
func (s *Service) Calculate(form *quote.Form) (quote.Quote, error) {
	q, err := form.Submit()
	if err != nil {
		s.logger.Debug().Err(err).Msg("quote rejected")
		return quote.Quote{}, err
	}
	s.logger.Debug().
		Float64("metros_cuadrados", q.AreaSqm).
		Int("propiedad", int(q.PropertyType)).
		Int("ubicacion", int(q.Location)).
		Float64("total_final", q.Total).
		Msg("total final")
	return q, nil
}

// Save stores the last computed quote of form and resets the form on success.
func (s *Service) Save(ctx context.Context, form *quote.Form) (quote.Record, error) {
	rec, err := form.Record(s.clock)
	if err != nil {
		return quote.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Append(ctx, rec); err != nil {
		return quote.Record{}, err
	}
	form.Reset()

	s.logger.Info().Str("fecha", rec.Timestamp).Float64("poliza", rec.PolicyPrice).Msg("quote saved")
	return rec, nil
}

// History lists saved quotes, optionally filtered.
func (s *Service) History(ctx context.Context, f history.Filter) ([]quote.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("records", len(records)).Msg("history listed")
	return records, nil
}

// DeleteSelected removes the selected quotes and returns how many were removed.
func (s *Service) DeleteSelected(ctx context.Context, sel history.Selection) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.store.DeleteSelected(ctx, sel)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("selected", sel.Len()).Int("removed", removed).Msg("quotes deleted")
	return removed, nil
}

// ClearAll removes the whole history.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("history cleared")
	return nil
}

// Export writes documents for the selected quotes and returns their paths.
func (s *Service) Export(ctx context.Context, sel history.Selection, opts export.Options) ([]string, error) {
	records, err := s.selected(ctx, sel)
	if err != nil {
		return nil, err
	}
	if s.exporter == nil {
		return nil, fmt.Errorf("export: exporter not configured")
	}
	return s.exporter.Export(records, opts)
}

// ExportPDF streams the PDF for the selected quotes to w.
func (s *Service) ExportPDF(ctx context.Context, sel history.Selection, w io.Writer) error {
	records, err := s.selected(ctx, sel)
	if err != nil {
		return err
	}
	return export.WritePDF(w, records)
}

func (s *Service) selected(ctx context.Context, sel history.Selection) ([]quote.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Selected(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, history.ErrEmptySelection
	}
	s.logger.Debug().Int("records", len(records)).Msg("export selection resolved")
	return records, nil
}
