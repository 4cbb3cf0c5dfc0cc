package app

import (
	"context"

	"cotizador/internal/export"
	"cotizador/internal/history"
	"cotizador/internal/notice"
)

// ExportOptions hold parameters for exporting selected quotes.
type ExportOptions struct {
	IDs []string
	Dir string
	PDF bool
	CSV bool
	PNG bool
}

// Export writes the documents for the selected quotes.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	svc, closeStore, err := a.openServiceWith(ctx, a.newExporter(opts.Dir))
	if err != nil {
		return err
	}
	defer closeStore()

	paths, err := svc.Export(ctx, history.NewSelection(opts.IDs...), export.Options{PDF: opts.PDF, CSV: opts.CSV, Chart: opts.PNG})
	if err != nil {
		return a.report(ctx, notice.ActionExport, err)
	}
	for _, path := range paths {
		if err := a.notify(ctx, notice.Exported(path)); err != nil {
			return err
		}
	}
	return nil
}
