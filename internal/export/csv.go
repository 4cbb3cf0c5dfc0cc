package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"cotizador/internal/quote"
)

// WriteCSV writes the display columns followed by the raw wire values.
func WriteCSV(w io.Writer, records []quote.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	writer := csv.NewWriter(w)

	header := append(append([]string{}, Columns...), "propiedad", "ubicacion", "metros_cuadrados", "poliza")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := append(Row(rec),
			strconv.Itoa(int(rec.PropertyType)),
			strconv.Itoa(int(rec.Location)),
			strconv.FormatFloat(rec.AreaSqm, 'f', -1, 64),
			strconv.FormatFloat(rec.PolicyPrice, 'f', -1, 64),
		)
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
