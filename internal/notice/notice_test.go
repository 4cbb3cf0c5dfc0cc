package notice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"cotizador/internal/history"
	"cotizador/internal/quote"
)

func TestFromErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		err    error
		level  Level
		title  string
		text   string
	}{
		{"validation", ActionCalculate, &quote.ValidationError{Field: "metrosCuadrados", Message: quote.MsgInvalidArea}, LevelWarning, "Datos inválidos", quote.MsgInvalidArea},
		{"not calculated", ActionSave, quote.ErrNotCalculated, LevelWarning, "Advertencia", "Por favor, calcula la cotización antes de guardar."},
		{"duplicate", ActionSave, fmt.Errorf("append: %w", history.ErrDuplicate), LevelError, "Cotización duplicada", "Ya existe una cotización idéntica en el historial."},
		{"delete selection", ActionDelete, history.ErrEmptySelection, LevelWarning, "Atención", "Selecciona las cotizaciones que quieres borrar"},
		{"export selection", ActionExport, history.ErrEmptySelection, LevelWarning, "Atención", "Selecciona cotizaciones haciendo clic sobre las que deseas imprimir"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := FromError(tc.action, tc.err)
			if !ok {
				t.Fatal("expected a notice")
			}
			if n.Level != tc.level || n.Title != tc.title || n.Text != tc.text {
				t.Fatalf("got %+v", n)
			}
		})
	}
}

func TestFromErrorLeavesFaultsAlone(t *testing.T) {
	if _, ok := FromError(ActionSave, errors.New("disk full")); ok {
		t.Fatal("persistence faults must not become notices")
	}
	if _, ok := FromError(ActionSave, nil); ok {
		t.Fatal("nil error has no notice")
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf, zerolog.Nop())
	if err := n.Notify(context.Background(), Saved()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got := buf.String(); got != "[ok] Cotización guardada exitosamente\n" {
		t.Fatalf("rendered %q", got)
	}
}
