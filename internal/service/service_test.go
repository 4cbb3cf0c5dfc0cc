package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"cotizador/internal/export"
	"cotizador/internal/history"
	"cotizador/internal/pricing"
	"cotizador/internal/quote"
	"cotizador/internal/storage"
)

type tickingClock struct {
	next time.Time
}

func (c *tickingClock) now() time.Time {
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

func newTestService(t *testing.T) (*Service, *storage.MemorySlot, string) {
	t.Helper()
	dir := t.TempDir()
	slot := storage.NewMemorySlot(nil)
	tick := &tickingClock{next: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)}
	clock := quote.Clock{Now: tick.now, Zone: time.UTC}
	exporter := export.New(export.Settings{Dir: dir}, zerolog.Nop())
	svc := New(history.New(slot, zerolog.Nop()), exporter, clock, zerolog.Nop())
	return svc, slot, dir
}

func saveQuote(t *testing.T, svc *Service, area, property, location string) quote.Record {
	t.Helper()
	form := &quote.Form{Area: area, Property: property, Location: location}
	if _, err := svc.Calculate(form); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	rec, err := svc.Save(context.Background(), form)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return rec
}

func TestCalculate(t *testing.T) {
	svc, _, _ := newTestService(t)
	q, err := svc.Calculate(&quote.Form{Area: "120", Property: "1", Location: "24"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if q.Total != 2402000 {
		t.Fatalf("total = %v", q.Total)
	}

	_, err = svc.Calculate(&quote.Form{Area: "-1", Property: "1", Location: "24"})
	var vErr *quote.ValidationError
	if !errors.As(err, &vErr) || vErr.Message != quote.MsgInvalidArea {
		t.Fatalf("expected invalid area, got %v", err)
	}
}

func TestSaveResetsFormAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)

	form := &quote.Form{Area: "50", Property: "3", Location: "12"}
	if _, err := svc.Save(ctx, form); !errors.Is(err, quote.ErrNotCalculated) {
		t.Fatalf("expected ErrNotCalculated, got %v", err)
	}
	if slot.Exists() {
		t.Fatal("nothing should be written before a calculation")
	}

	if _, err := svc.Calculate(form); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	rec, err := svc.Save(ctx, form)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Timestamp != "05/03/2024, 14:00:00" || rec.PolicyPrice != 1126200 {
		t.Fatalf("record = %+v", rec)
	}
	if form.Area != "" || form.Property != "" || form.Location != "" {
		t.Fatalf("form not reset: %+v", form)
	}
	if _, err := svc.Save(ctx, form); !errors.Is(err, quote.ErrNotCalculated) {
		t.Fatalf("second save after reset should need a calculation, got %v", err)
	}

	records, err := svc.History(ctx, history.Filter{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 || !records[0].Equal(rec) {
		t.Fatalf("history = %+v", records)
	}
}

func TestSaveKeepsFormOnDuplicate(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot(nil)
	fixed := quote.Clock{Now: func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }, Zone: time.UTC}
	svc := New(history.New(slot, zerolog.Nop()), nil, fixed, zerolog.Nop())

	for i := 0; i < 2; i++ {
		form := &quote.Form{Area: "10", Property: "5", Location: "10"}
		if _, err := svc.Calculate(form); err != nil {
			t.Fatalf("calculate: %v", err)
		}
		_, err := svc.Save(ctx, form)
		if i == 0 && err != nil {
			t.Fatalf("first save: %v", err)
		}
		if i == 1 {
			if !errors.Is(err, history.ErrDuplicate) {
				t.Fatalf("expected duplicate, got %v", err)
			}
			if form.Area != "10" {
				t.Fatal("a rejected save must keep the form inputs")
			}
		}
	}
}

func TestHistoryFilter(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	saveQuote(t, svc, "100", "1", "24")
	saveQuote(t, svc, "100", "2", "12")
	saveQuote(t, svc, "30", "1", "12")

	records, err := svc.History(ctx, history.Filter{Property: pricing.Casa})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 casas, got %d", len(records))
	}
	records, err = svc.History(ctx, history.Filter{Property: pricing.Casa, Location: pricing.GBA})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 || records[0].AreaSqm != 30 {
		t.Fatalf("filtered = %+v", records)
	}
}

func TestDeleteSelectedAndClear(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	first := saveQuote(t, svc, "100", "1", "24")
	saveQuote(t, svc, "200", "6", "10")

	if _, err := svc.DeleteSelected(ctx, history.NewSelection()); !errors.Is(err, history.ErrEmptySelection) {
		t.Fatalf("expected empty selection, got %v", err)
	}
	removed, err := svc.DeleteSelected(ctx, history.NewSelection(first.ID()))
	if err != nil || removed != 1 {
		t.Fatalf("delete = %d, %v", removed, err)
	}
	records, _ := svc.History(ctx, history.Filter{})
	if len(records) != 1 || records[0].AreaSqm != 200 {
		t.Fatalf("remaining = %+v", records)
	}

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if slot.Exists() {
		t.Fatal("clear should remove the slot")
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc, _, dir := newTestService(t)
	rec := saveQuote(t, svc, "80", "7", "10")
	saveQuote(t, svc, "90", "4", "12")

	if _, err := svc.Export(ctx, history.NewSelection(), export.Options{}); !errors.Is(err, history.ErrEmptySelection) {
		t.Fatalf("expected empty selection, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, export.PDFFilename)); !os.IsNotExist(err) {
		t.Fatal("no document should be written for an empty selection")
	}
	if _, err := svc.Export(ctx, history.NewSelection("no-such-row"), export.Options{}); !errors.Is(err, history.ErrEmptySelection) {
		t.Fatalf("unknown ids should count as empty, got %v", err)
	}

	paths, err := svc.Export(ctx, history.NewSelection(rec.ID()), export.Options{PDF: true, CSV: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != export.PDFFilename {
		t.Fatalf("paths = %v", paths)
	}

	var buf bytes.Buffer
	if err := svc.ExportPDF(ctx, history.NewSelection(rec.ID()), &buf); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("stream is not a PDF")
	}
}

func TestOptions(t *testing.T) {
	svc, _, _ := newTestService(t)
	opts := svc.Options()
	if len(opts.PropertyTypes) != 7 {
		t.Fatalf("property options = %d", len(opts.PropertyTypes))
	}
	if len(opts.Locations) != 4 {
		t.Fatalf("location options = %d", len(opts.Locations))
	}
}
