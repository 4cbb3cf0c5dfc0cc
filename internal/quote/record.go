package quote

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"cotizador/internal/pricing"
)

// DefaultTimestampLayout renders creation times the way the history table shows them.
const DefaultTimestampLayout = "02/01/2006, 15:04:05"

// ErrNotCalculated is returned when a record is requested before the form produced a price.
var ErrNotCalculated = errors.New("quote: calculate the quote before saving")

// Record is one persisted quote. Field names are the wire contract of the history slot.
type Record struct {
	Timestamp    string               `json:"fechaCotizacion"`
	PropertyType pricing.PropertyType `json:"propiedad"`
	Location     pricing.Location     `json:"ubicacion"`
	AreaSqm      float64              `json:"metrosCuadrados"`
	PolicyPrice  float64              `json:"poliza"`
}

// UnmarshalJSON accepts numeric fields both as JSON numbers and as quoted
// strings, which is how older history entries stored form values.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp    string          `json:"fechaCotizacion"`
		PropertyType decimal.Decimal `json:"propiedad"`
		Location     decimal.Decimal `json:"ubicacion"`
		AreaSqm      decimal.Decimal `json:"metrosCuadrados"`
		PolicyPrice  decimal.Decimal `json:"poliza"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		Timestamp:    raw.Timestamp,
		PropertyType: pricing.PropertyType(raw.PropertyType.IntPart()),
		Location:     pricing.Location(raw.Location.IntPart()),
		AreaSqm:      raw.AreaSqm.InexactFloat64(),
		PolicyPrice:  raw.PolicyPrice.InexactFloat64(),
	}
	return nil
}

// ID identifies the record for selection and deletion.
func (r Record) ID() string {
	return r.Timestamp
}

// Equal reports whether every field matches.
func (r Record) Equal(other Record) bool {
	return r == other
}

// Validate checks the fields a stored record must carry.
func (r Record) Validate() error {
	switch {
	case r.Timestamp == "":
		return &ValidationError{Field: "fechaCotizacion", Message: "la fecha de cotización es obligatoria"}
	case !finite(r.AreaSqm) || r.AreaSqm <= 0:
		return &ValidationError{Field: "metrosCuadrados", Message: MsgInvalidArea}
	case !r.PropertyType.Known():
		return &ValidationError{Field: "propiedad", Message: MsgRequiredFields}
	case !r.Location.Known():
		return &ValidationError{Field: "ubicacion", Message: MsgRequiredFields}
	case !finite(r.PolicyPrice) || r.PolicyPrice < 0:
		return &ValidationError{Field: "poliza", Message: "la póliza debe ser un número no negativo"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PropertyLabel is the display name of the property type.
func (r Record) PropertyLabel() string {
	return r.PropertyType.Label()
}

// LocationLabel is the display name of the location.
func (r Record) LocationLabel() string {
	return r.Location.Label()
}

// Clock formats creation timestamps.
type Clock struct {
	Now    func() time.Time
	Layout string
	Zone   *time.Location
}

// Stamp returns the current time rendered with the clock layout.
func (c Clock) Stamp() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	layout := c.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	t := now()
	if c.Zone != nil {
		t = t.In(c.Zone)
	}
	return t.Format(layout)
}
