package quote

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"cotizador/internal/pricing"
)

const (
	// MsgInvalidArea is shown when the area is negative.
	MsgInvalidArea = "Ingresa una cantidad válida de metros cuadrados."
	// MsgRequiredFields is shown for any other missing or malformed input.
	MsgRequiredFields = "Todos los campos son obligatorios."
)

// ValidationError describes a rejected form input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Quote is the outcome of a successful form submission.
type Quote struct {
	AreaSqm       float64              `json:"metrosCuadrados"`
	PropertyType  pricing.PropertyType `json:"propiedad"`
	Location      pricing.Location     `json:"ubicacion"`
	Total         float64              `json:"poliza"`
	PropertyLabel string               `json:"tipoInmueble"`
	LocationLabel string               `json:"ubicadoEn"`
	Display       string               `json:"costoEstimado"`
}

// Form holds raw user input until a quote is saved.
type Form struct {
	Area     string `json:"metrosCuadrados"`
	Property string `json:"propiedad"`
	Location string `json:"ubicacion"`

	quote *Quote
}

// Submit validates the inputs and prices them. On failure the previous
// result is discarded.
func (f *Form) Submit() (Quote, error) {
	f.quote = nil

	area, err := parseArea(f.Area)
	if err != nil {
		return Quote{}, err
	}

	property, err := pricing.ParsePropertyType(f.Property)
	if err != nil {
		return Quote{}, &ValidationError{Field: "propiedad", Message: MsgRequiredFields}
	}
	location, err := pricing.ParseLocation(f.Location)
	if err != nil {
		return Quote{}, &ValidationError{Field: "ubicacion", Message: MsgRequiredFields}
	}
	if !property.Known() {
		return Quote{}, &ValidationError{Field: "propiedad", Message: MsgRequiredFields}
	}
	if !location.Known() {
		return Quote{}, &ValidationError{Field: "ubicacion", Message: MsgRequiredFields}
	}

	total := pricing.Compute(area, property, location)
	if !finite(total) {
		return Quote{}, &ValidationError{Field: "metrosCuadrados", Message: MsgRequiredFields}
	}
	q := Quote{
		AreaSqm:       area,
		PropertyType:  property,
		Location:      location,
		Total:         total,
		PropertyLabel: property.Label(),
		LocationLabel: location.Label(),
		Display:       FormatMoney(total),
	}
	f.quote = &q
	return q, nil
}

// Result returns the last computed quote, if any.
func (f *Form) Result() (Quote, bool) {
	if f.quote == nil {
		return Quote{}, false
	}
	return *f.quote, true
}

// Record builds the persistable record for the last computed quote.
func (f *Form) Record(clock Clock) (Record, error) {
	q, ok := f.Result()
	if !ok {
		return Record{}, ErrNotCalculated
	}
	rec := Record{
		Timestamp:    clock.Stamp(),
		PropertyType: q.PropertyType,
		Location:     q.Location,
		AreaSqm:      q.AreaSqm,
		PolicyPrice:  q.Total,
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Reset empties every field and forgets the computed quote.
func (f *Form) Reset() {
	f.Area = ""
	f.Property = ""
	f.Location = ""
	f.quote = nil
}

func parseArea(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, &ValidationError{Field: "metrosCuadrados", Message: MsgRequiredFields}
	}
	area, err := decimal.NewFromString(value)
	if err != nil {
		return 0, &ValidationError{Field: "metrosCuadrados", Message: MsgRequiredFields}
	}
	if area.IsNegative() {
		return 0, &ValidationError{Field: "metrosCuadrados", Message: MsgInvalidArea}
	}
	if !area.IsPositive() {
		return 0, &ValidationError{Field: "metrosCuadrados", Message: MsgRequiredFields}
	}
	sqm := area.InexactFloat64()
	if math.IsInf(sqm, 0) {
		return 0, &ValidationError{Field: "metrosCuadrados", Message: MsgRequiredFields}
	}
	return sqm, nil
}
