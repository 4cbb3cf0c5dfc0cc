// Package export renders selected history records as PDF, CSV or PNG.
package export

import (
	"errors"

	"cotizador/internal/quote"
)

// PDFFilename is the fixed name of the printable document.
const PDFFilename = "historial_seleccionado.pdf"

// ErrNoRecords is returned when there is nothing to render.
var ErrNoRecords = errors.New("export: no records to render")

// Columns are the headings of the exported table.
var Columns = []string{"Fecha", "Tipo de Propiedad", "Ubicación", "Metros Cuadrados", "Costo de la Póliza"}

// Row renders the display cells for rec in column order.
func Row(rec quote.Record) []string {
	return []string{
		rec.Timestamp,
		rec.PropertyLabel(),
		rec.LocationLabel(),
		quote.FormatArea(rec.AreaSqm),
		quote.FormatMoney(rec.PolicyPrice),
	}
}
