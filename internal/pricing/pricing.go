package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyType is the closed set of insurable property kinds.
type PropertyType int

// Location is the closed set of pricing zones.
type Location int

const (
	Casa              PropertyType = 1
	PH                PropertyType = 2
	DeptoEdificio     PropertyType = 3
	BarrioPrivado     PropertyType = 4
	Oficina           PropertyType = 5
	LocalComercial    PropertyType = 6
	DepositoLogistica PropertyType = 7
)

const (
	CABA     Location = 24
	GBA      Location = 12
	ProvBsAs Location = 10
)

const (
	smallAreaMax  = 100.0
	smallAreaRate = 150.0
	largeAreaRate = 100.0
)

// PropertyTypes lists every known property type in display order.
var PropertyTypes = []PropertyType{Casa, PH, DeptoEdificio, BarrioPrivado, Oficina, LocalComercial, DepositoLogistica}

// Locations lists every known location code.
var Locations = []Location{CABA, GBA, ProvBsAs}

// Compute returns the estimated policy price for the given inputs.
// Inputs are not validated: NaN and zero propagate arithmetically.
func Compute(areaSqm float64, p PropertyType, l Location) float64 {
	rate := largeAreaRate
	if areaSqm <= smallAreaMax {
		rate = smallAreaRate
	}
	base := areaSqm * rate
	return base*l.Multiplier() + p.Addend()
}

// BaseArea is the area term before the location multiplier.
func BaseArea(areaSqm float64) float64 {
	if areaSqm <= smallAreaMax {
		return areaSqm * smallAreaRate
	}
	return areaSqm * largeAreaRate
}

// Addend is the flat amount added for the property type. Unknown types add 0.
func (p PropertyType) Addend() float64 {
	switch p {
	case Casa:
		return 2000
	case PH:
		return 1500
	case DeptoEdificio:
		return 1200
	case BarrioPrivado:
		return 1800
	case Oficina:
		return 2500
	case LocalComercial:
		return 2200
	case DepositoLogistica:
		return 1700
	default:
		return 0
	}
}

// Label is the display name; unknown types render empty.
func (p PropertyType) Label() string {
	switch p {
	case Casa:
		return "Casa"
	case PH:
		return "P.H."
	case DeptoEdificio:
		return "Depto. Edificio"
	case BarrioPrivado:
		return "Barrio Privado"
	case Oficina:
		return "Oficina"
	case LocalComercial:
		return "Local Comercial"
	case DepositoLogistica:
		return "Depósito Logística"
	default:
		return ""
	}
}

// Known reports whether p belongs to the closed set.
func (p PropertyType) Known() bool {
	return p.Label() != ""
}

// Multiplier scales the base area term. Unknown codes multiply by 1.
func (l Location) Multiplier() float64 {
	switch l {
	case CABA:
		return 200
	case GBA:
		return 150
	case ProvBsAs:
		return 120
	default:
		return 1
	}
}

// Label is the display name of a location code. Code 10 is shown as
// "Prov. de Buenos Aires" even when it was picked through "Mendoza".
func (l Location) Label() string {
	switch l {
	case CABA:
		return "CABA"
	case GBA:
		return "GBA"
	case ProvBsAs:
		return "Prov. de Buenos Aires"
	default:
		return ""
	}
}

// Known reports whether l belongs to the closed set.
func (l Location) Known() bool {
	return l.Label() != ""
}

// Option is one selectable entry of a form drop-down.
type Option struct {
	Label string `json:"label"`
	Code  int    `json:"code"`
}

// LocationOptions mirrors the location selector. Two labels share code 10.
var LocationOptions = []Option{
	{Label: "CABA", Code: int(CABA)},
	{Label: "GBA", Code: int(GBA)},
	{Label: "Prov. de Buenos Aires", Code: int(ProvBsAs)},
	{Label: "Mendoza", Code: int(ProvBsAs)},
}

// PropertyOptions mirrors the property type selector.
func PropertyOptions() []Option {
	opts := make([]Option, 0, len(PropertyTypes))
	for _, p := range PropertyTypes {
		opts = append(opts, Option{Label: p.Label(), Code: int(p)})
	}
	return opts
}

// ParsePropertyType accepts a numeric code or a label (case-insensitive).
// An empty input yields 0 with no error so callers can report a missing field.
func ParsePropertyType(raw string) (PropertyType, error) {
	code, err := parseCode(raw, PropertyOptions())
	if err != nil {
		return 0, fmt.Errorf("tipo de propiedad desconocido %q", raw)
	}
	return PropertyType(code), nil
}

// ParseLocation accepts a numeric code or a label (case-insensitive).
func ParseLocation(raw string) (Location, error) {
	code, err := parseCode(raw, LocationOptions)
	if err != nil {
		return 0, fmt.Errorf("ubicación desconocida %q", raw)
	}
	return Location(code), nil
}

func parseCode(raw string, options []Option) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, nil
	}
	if code, err := strconv.Atoi(value); err == nil {
		return code, nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt.Label, value) {
			return opt.Code, nil
		}
	}
	return 0, strconv.ErrSyntax
}
