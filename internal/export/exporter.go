package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"cotizador/internal/quote"
)

// Options choose which documents to produce.
type Options struct {
	PDF   bool
	CSV   bool
	Chart bool
}

// Settings configure where and how documents are written.
type Settings struct {
	Dir         string
	CSVFilename string
	PNGFilename string
	Chart       ChartOptions
}

// Exporter writes documents for a set of records into a directory.
type Exporter struct {
	settings Settings
	logger   zerolog.Logger
}

// New constructs an Exporter. Empty filenames fall back to the defaults.
// The PDF is always written as PDFFilename.
func New(settings Settings, logger zerolog.Logger) *Exporter {
	if settings.CSVFilename == "" {
		settings.CSVFilename = "historial_seleccionado.csv"
	}
	if settings.PNGFilename == "" {
		settings.PNGFilename = "historial_seleccionado.png"
	}
	if settings.Dir == "" {
		settings.Dir = "."
	}
	return &Exporter{settings: settings, logger: logger.With().Str("component", "exporter").Logger()}
}

// Export renders the requested documents and returns the written paths.
// Nothing is written when records is empty.
func (e *Exporter) Export(records []quote.Record, opts Options) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if !opts.PDF && !opts.CSV && !opts.Chart {
		opts.PDF = true
	}

	var written []string
	if opts.PDF {
		path := filepath.Join(e.settings.Dir, PDFFilename)
		if err := writeFile(path, func(buf *bytes.Buffer) error { return WritePDF(buf, records) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.CSV {
		path := filepath.Join(e.settings.Dir, e.settings.CSVFilename)
		if err := writeFile(path, func(buf *bytes.Buffer) error { return WriteCSV(buf, records) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.Chart {
		path := filepath.Join(e.settings.Dir, e.settings.PNGFilename)
		if err := writeFile(path, func(buf *bytes.Buffer) error { return WriteChart(buf, records, e.settings.Chart) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	e.logger.Info().Int("records", len(records)).Strs("files", written).Msg("export written")
	return written, nil
}

// writeFile renders into memory first so a failed render leaves no partial file.
func writeFile(path string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
