package app

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"cotizador/internal/export"
	"cotizador/internal/history"
	"cotizador/internal/notice"
	"cotizador/internal/pricing"
)

// HistoryOptions configure the history listing.
type HistoryOptions struct {
	Property string
	Location string
	JSON     bool
}

// ClearOptions configure the clear command.
type ClearOptions struct {
	Yes bool
}

// History prints the saved quotes.
func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	filter, err := parseFilter(opts)
	if err != nil {
		return err
	}

	svc, closeStore, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	records, err := svc.History(ctx, filter)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(a, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(a.Out, "No hay cotizaciones guardadas.")
		return nil
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, strings.Join(export.Columns, "\t"))
	for _, rec := range records {
		fmt.Fprintln(writer, strings.Join(sanitizeRow(export.Row(rec)), "\t"))
	}
	return writer.Flush()
}

// Delete removes the quotes whose timestamps are listed.
func (a *App) Delete(ctx context.Context, ids []string) error {
	svc, closeStore, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	removed, err := svc.DeleteSelected(ctx, history.NewSelection(ids...))
	if err != nil {
		return a.report(ctx, notice.ActionDelete, err)
	}
	return a.notify(ctx, notice.Deleted(removed))
}

// Clear removes the whole history after confirmation.
func (a *App) Clear(ctx context.Context, opts ClearOptions) error {
	if !opts.Yes && !a.confirm("¿Estás seguro? Esta acción eliminará todo el historial. ¿Deseas continuar? [s/N]: ") {
		fmt.Fprintln(a.Out, "Operación cancelada.")
		return nil
	}

	svc, closeStore, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := svc.ClearAll(ctx); err != nil {
		return a.report(ctx, notice.ActionClear, err)
	}
	return a.notify(ctx, notice.Cleared())
}

func (a *App) confirm(prompt string) bool {
	fmt.Fprint(a.Out, prompt)
	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func parseFilter(opts HistoryOptions) (history.Filter, error) {
	var filter history.Filter
	if opts.Property != "" {
		p, err := pricing.ParsePropertyType(opts.Property)
		if err != nil {
			return filter, fmt.Errorf("invalid --property value: %w", err)
		}
		filter.Property = p
	}
	if opts.Location != "" {
		l, err := pricing.ParseLocation(opts.Location)
		if err != nil {
			return filter, fmt.Errorf("invalid --location value: %w", err)
		}
		filter.Location = l
	}
	return filter, nil
}

func sanitizeRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, v := range cells {
		cleaned := strings.ReplaceAll(v, "\n", " ")
		cleaned = strings.ReplaceAll(cleaned, "\r", " ")
		out[i] = strings.ReplaceAll(cleaned, "\t", " ")
	}
	return out
}
