package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"cotizador/internal/config"
	"cotizador/internal/export"
	"cotizador/internal/history"
	"cotizador/internal/notice"
	"cotizador/internal/quote"
	"cotizador/internal/service"
	"cotizador/internal/storage"
)

// ErrNoticeShown marks a failure already reported to the user as a notice.
var ErrNoticeShown = errors.New("notice shown")

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	In  io.Reader
	Out io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

func (a *App) openService(ctx context.Context) (*service.Service, func(), error) {
	return a.openServiceWith(ctx, a.newExporter(""))
}

func (a *App) openServiceWith(ctx context.Context, exporter *export.Exporter) (*service.Service, func(), error) {
	slot, closer, err := storage.Open(ctx, a.Config.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open history storage: %w", err)
	}

	clock, err := a.clock()
	if err != nil {
		closer()
		return nil, nil, err
	}

	store := history.New(slot, a.Logger)
	svc := service.New(store, exporter, clock, a.Logger)
	a.Logger.Debug().Str("backend", a.Config.Storage.Backend).Str("key", a.Config.Storage.Key).Msg("history storage opened")
	return svc, closer, nil
}

// detachedService serves operations that never touch the history.
func (a *App) detachedService() *service.Service {
	return service.New(nil, nil, quote.Clock{}, a.Logger)
}

func (a *App) clock() (quote.Clock, error) {
	zone, err := a.Config.Quote.Location()
	if err != nil {
		return quote.Clock{}, err
	}
	return quote.Clock{Layout: a.Config.Quote.TimestampLayout, Zone: zone}, nil
}

func (a *App) newExporter(dir string) *export.Exporter {
	cfg := a.Config.Export
	if dir == "" {
		dir = cfg.Dir
	}
	return export.New(export.Settings{
		Dir:         dir,
		CSVFilename: cfg.CSVFilename,
		PNGFilename: cfg.PNGFilename,
		Chart:       export.ChartOptions{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
	}, a.Logger)
}

func (a *App) notifier() notice.Notifier {
	return notice.NewConsoleNotifier(a.Out, a.Logger)
}

// report shows recoverable failures as notices. Anything else is returned
// unchanged.
func (a *App) report(ctx context.Context, action notice.Action, err error) error {
	n, ok := notice.FromError(action, err)
	if !ok {
		return err
	}
	if nerr := a.notifier().Notify(ctx, n); nerr != nil {
		return nerr
	}
	return ErrNoticeShown
}

func (a *App) notify(ctx context.Context, n notice.Notice) error {
	return a.notifier().Notify(ctx, n)
}
