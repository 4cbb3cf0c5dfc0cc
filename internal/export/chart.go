package export

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"cotizador/internal/quote"
)

// ChartOptions size the PNG chart.
type ChartOptions struct {
	Width  int
	Height int
}

// WriteChart renders one bar per record with its policy price.
func WriteChart(w io.Writer, records []quote.Record, opts ChartOptions) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}

	bars := make([]chart.Value, 0, len(records))
	top := 0.0
	for i, rec := range records {
		value := rec.PolicyPrice
		if math.IsNaN(value) || math.IsInf(value, 0) {
			value = 0
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d. %s", i+1, rec.PropertyLabel()),
			Value: value,
		})
		top = max(top, value)
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      "Costo de la Póliza",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   barWidth(opts.Width, len(bars)),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return quote.FormatMoney(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

func barWidth(width, bars int) int {
	w := width / (bars * 2)
	return min(max(w, 8), 80)
}
