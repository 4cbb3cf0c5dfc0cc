package quote

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a price as "$ 1.234.567,89" with at most two decimals.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$ -"
	}
	return "$ " + FormatNumber(decimal.NewFromFloat(v).Round(2))
}

// FormatArea renders an area without trailing zeros.
func FormatArea(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNumber groups thousands with "." and uses "," as decimal separator.
func FormatNumber(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	text := d.String()
	intPart, fracPart, _ := strings.Cut(text, ".")

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}
	if fracPart = strings.TrimRight(fracPart, "0"); fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
