package slip

import (
	"strconv"
	"strings"

	"github.com/akshayfabrics/backend-slip/internal/currency"
	"github.com/akshayfabrics/backend-slip/internal/expr"
)

// Totals is the derived summary for a slip. All three figures are recomputed
// from the current collection on every query; nothing here is cached.
type Totals struct {
	TotalPieces float64 `json:"totalPieces"`
	GrossValue  float64 `json:"grossValue"`
	GrossAmount string  `json:"grossAmount"`
	NetAmount   string  `json:"netAmount"`
}

// TotalPieces sums the piece counts across all rows. Non-numeric piece
// strings contribute zero.
func TotalPieces(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += parseNumeric(it.Pieces)
	}
	return sum
}

// GrossAmount sums the derived row totals.
func GrossAmount(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total
	}
	return sum
}

// NetAmount applies the balance-outstanding adjustment to the gross total and
// formats the result as rupees. The adjustment is free text: a leading + or -
// is honoured as written, an unsigned amount is added, and an empty string
// leaves the gross untouched. The composite runs through the expression
// evaluator, so an adjustment that is itself an expression (e.g. "+50*2")
// compounds arithmetically, and a malformed one collapses the net to ₹0.00.
func NetAmount(items []Item, adjustment string) string {
	composite := strconv.FormatFloat(GrossAmount(items), 'f', -1, 64)
	if adj := strings.TrimSpace(adjustment); adj != "" {
		if !strings.HasPrefix(adj, "+") && !strings.HasPrefix(adj, "-") {
			composite += "+"
		}
		composite += adj
	}
	return currency.FormatINR(expr.Evaluate(composite))
}

// ComputeTotals bundles the three derivations for a draft.
func ComputeTotals(items []Item, adjustment string) Totals {
	gross := GrossAmount(items)
	return Totals{
		TotalPieces: TotalPieces(items),
		GrossValue:  gross,
		GrossAmount: currency.FormatINR(gross),
		NetAmount:   NetAmount(items, adjustment),
	}
}
