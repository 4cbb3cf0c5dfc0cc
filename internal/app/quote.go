package app

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"cotizador/internal/notice"
	"cotizador/internal/quote"
)

// QuoteOptions carry raw form input from the command line.
type QuoteOptions struct {
	Area     string
	Property string
	Location string
	JSON     bool
}

func (o QuoteOptions) form() *quote.Form {
	return &quote.Form{Area: o.Area, Property: o.Property, Location: o.Location}
}

// Quote prices the form and prints the result without saving it.
func (a *App) Quote(ctx context.Context, opts QuoteOptions) error {
	q, err := a.detachedService().Calculate(opts.form())
	if err != nil {
		return a.report(ctx, notice.ActionCalculate, err)
	}
	return a.printQuote(q, opts.JSON)
}

// Save prices the form and appends it to the history.
func (a *App) Save(ctx context.Context, opts QuoteOptions) error {
	svc, closeStore, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	form := opts.form()
	q, err := svc.Calculate(form)
	if err != nil {
		return a.report(ctx, notice.ActionSave, err)
	}
	rec, err := svc.Save(ctx, form)
	if err != nil {
		return a.report(ctx, notice.ActionSave, err)
	}
	if opts.JSON {
		return writeJSON(a, rec)
	}
	if err := a.printQuote(q, false); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Fecha: %s\n", rec.Timestamp)
	return a.notify(ctx, notice.Saved())
}

// Options prints the selectable property types and locations.
func (a *App) Options(ctx context.Context, asJSON bool) error {
	opts := a.detachedService().Options()
	if asJSON {
		return writeJSON(a, opts)
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Tipo de Propiedad\tCódigo")
	for _, opt := range opts.PropertyTypes {
		fmt.Fprintf(writer, "%s\t%d\n", opt.Label, opt.Code)
	}
	fmt.Fprintln(writer, "\t")
	fmt.Fprintln(writer, "Ubicación\tCódigo")
	for _, opt := range opts.Locations {
		fmt.Fprintf(writer, "%s\t%d\n", opt.Label, opt.Code)
	}
	return writer.Flush()
}

func (a *App) printQuote(q quote.Quote, asJSON bool) error {
	if asJSON {
		return writeJSON(a, q)
	}
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Tipo de Propiedad:\t%s\n", q.PropertyLabel)
	fmt.Fprintf(writer, "Ubicado en:\t%s\n", q.LocationLabel)
	fmt.Fprintf(writer, "Metros Cuadrados:\t%s\n", quote.FormatArea(q.AreaSqm))
	fmt.Fprintf(writer, "Costo Estimado:\t%s\n", q.Display)
	return writer.Flush()
}

func writeJSON(a *App, v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
