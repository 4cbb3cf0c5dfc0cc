package notice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"cotizador/internal/history"
	"cotizador/internal/quote"
)

// Level classifies a notice the way the UI styles it.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Action names the user action that produced an outcome; it picks the
// wording of selection warnings.
type Action string

const (
	ActionCalculate Action = "calculate"
	ActionSave      Action = "save"
	ActionList      Action = "list"
	ActionDelete    Action = "delete"
	ActionExport    Action = "export"
	ActionClear     Action = "clear"
)

// Notice is a user-visible outcome.
type Notice struct {
	Level Level  `json:"level"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Saved is shown after a quote is stored.
func Saved() Notice {
	return Notice{Level: LevelSuccess, Title: "Cotización guardada exitosamente"}
}

// Cleared is shown after the whole history is removed.
func Cleared() Notice {
	return Notice{Level: LevelSuccess, Title: "Historial borrado exitosamente"}
}

// Deleted is shown after selected rows are removed.
func Deleted(n int) Notice {
	return Notice{Level: LevelSuccess, Title: "Cotizaciones borradas", Text: fmt.Sprintf("Se borraron %d cotizaciones.", n)}
}

// Exported is shown after a document is written.
func Exported(path string) Notice {
	return Notice{Level: LevelSuccess, Title: "Documento generado", Text: path}
}

// FromError maps a domain error to the notice the user sees. ok is false for
// errors that are not user-recoverable, such as persistence faults; callers
// must propagate those.
func FromError(action Action, err error) (Notice, bool) {
	var vErr *quote.ValidationError
	switch {
	case err == nil:
		return Notice{}, false
	case errors.As(err, &vErr):
		return Notice{Level: LevelWarning, Title: "Datos inválidos", Text: vErr.Message}, true
	case errors.Is(err, quote.ErrNotCalculated):
		return Notice{Level: LevelWarning, Title: "Advertencia", Text: "Por favor, calcula la cotización antes de guardar."}, true
	case errors.Is(err, history.ErrDuplicate):
		return Notice{Level: LevelError, Title: "Cotización duplicada", Text: "Ya existe una cotización idéntica en el historial."}, true
	case errors.Is(err, history.ErrEmptySelection):
		text := "Selecciona las cotizaciones que quieres borrar"
		if action == ActionExport {
			text = "Selecciona cotizaciones haciendo clic sobre las que deseas imprimir"
		}
		return Notice{Level: LevelWarning, Title: "Atención", Text: text}, true
	default:
		return Notice{}, false
	}
}

// ConsoleNotifier writes notices as text lines.
type ConsoleNotifier struct {
	out    io.Writer
	logger zerolog.Logger
}

// NewConsoleNotifier constructs a notifier that writes to out.
func NewConsoleNotifier(out io.Writer, logger zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, logger: logger.With().Str("component", "notice").Logger()}
}

// Notify renders the notice.
func (c *ConsoleNotifier) Notify(ctx context.Context, n Notice) error {
	if _, err := io.WriteString(c.out, Render(n)); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	c.logger.Debug().Str("level", string(n.Level)).Str("title", n.Title).Msg("notice shown")
	return nil
}

// Render formats a notice for terminals.
func Render(n Notice) string {
	var b strings.Builder
	switch n.Level {
	case LevelSuccess:
		b.WriteString("[ok] ")
	case LevelWarning:
		b.WriteString("[!] ")
	case LevelError:
		b.WriteString("[x] ")
	}
	b.WriteString(n.Title)
	if n.Text != "" {
		b.WriteString(": ")
		b.WriteString(n.Text)
	}
	b.WriteString("\n")
	return b.String()
}

var _ Notifier = (*ConsoleNotifier)(nil)
