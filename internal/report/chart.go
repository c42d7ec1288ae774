package report

import (
	"fmt"
	"hash/fnv"

	"github.com/shopspring/decimal"
)

// DoughnutData is a presentation-ready category breakdown: one label, one
// value and one fill color per slice, in the order the categories first
// appeared in the source records.
type DoughnutData struct {
	Labels []string
	Values []decimal.Decimal
	Colors []string
}

// ColorTable maps a category name to its display color.
type ColorTable map[string]string

// DefaultColors covers the suggested category vocabulary. Anything outside
// it gets a deterministic hash-derived color from categoryColor.
var DefaultColors = ColorTable{
	"food":          "#FF6384",
	"salary":        "#36A2EB",
	"rent":          "#FF9F40",
	"shopping":      "#FFCE56",
	"entertainment": "#4BC0C0",
	"transport":     "#9966FF",
	"utilities":     "#C9CBCF",
	"other":         "#999999",
}

// MapToDoughnutData builds doughnut chart data from per-category totals.
// Colors come from the table when present; categories without an entry get
// a color derived from the category name, so a breakdown with more
// categories than table entries still renders every slice and renders it
// the same way on every call. A nil table means DefaultColors.
func MapToDoughnutData(totals []CategoryAmount, colors ColorTable) DoughnutData {
	if colors == nil {
		colors = DefaultColors
	}
	data := DoughnutData{
		Labels: make([]string, 0, len(totals)),
		Values: make([]decimal.Decimal, 0, len(totals)),
		Colors: make([]string, 0, len(totals)),
	}
	for _, ca := range totals {
		data.Labels = append(data.Labels, ca.Name)
		data.Values = append(data.Values, ca.Amount)
		color, ok := colors[ca.Name]
		if !ok {
			color = categoryColor(ca.Name)
		}
		data.Colors = append(data.Colors, color)
	}
	return data
}

// categoryColor derives a stable color from the category name. The top bit
// of each channel is forced on to keep the result readable on a light
// background.
func categoryColor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum32()
	r := byte(sum>>16) | 0x80
	g := byte(sum>>8) | 0x80
	b := byte(sum) | 0x80
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
