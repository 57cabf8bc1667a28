package service

import (
	"math"

	"github.com/shopspring/decimal"

	"currency-calculator/internal/calculator"
	"currency-calculator/internal/domain/model"
)

// BuildView renders the read side of a calculator state. The base row comes first,
// followed by every tracked currency other than the base. Values that are
// missing or not finite are shown as 0.
func BuildView(id string, st *calculator.State) *model.SessionView {
	values := calculator.ComputeDisplayedValues(st)
	base := st.BaseCurrency()
	tracked := st.Tracked()

	rows := make([]model.ConvertedRow, 0, len(tracked)+1)
	if !base.IsZero() {
		rows = append(rows, newRow(base, values, true))
	}
	for _, code := range tracked {
		if code == base {
			continue
		}
		rows = append(rows, newRow(code, values, false))
	}

	return &model.SessionView{
		ID:           id,
		BaseCurrency: base,
		BaseAmount:   st.BaseAmount(),
		AsOfDate:     st.AsOfDate(),
		Tracked:      tracked,
		Pending:      st.Pending(),
		Currencies:   st.Currencies(),
		Rows:         rows,
	}
}

func newRow(code model.Currency, values map[model.Currency]float64, isBase bool) model.ConvertedRow {
	v := displayValue(values[code])
	return model.ConvertedRow{
		Currency: code,
		Value:    v,
		Display:  FormatAmount(v),
		IsBase:   isBase,
	}
}

func displayValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return 0
	}
	return v
}

// FormatAmount renders a converted value with two decimal places.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(displayValue(v)).StringFixed(2)
}
