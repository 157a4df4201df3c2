// Package slip owns the packing slip ledger: the mutable collection of line
// items, the derived totals, and the draft documents the HTTP layer exposes.
// All collection operations are pure functions over the item slice; the only
// state is the draft record the store persists.
package slip

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/akshayfabrics/backend-slip/internal/expr"
)

// MaxItems bounds a slip to what fits on the printed page.
const MaxItems = 7

// Field selects which line item field an update targets. Using a closed enum
// instead of a raw string key makes an invalid field unrepresentable past the
// HTTP boundary.
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldPieces
	FieldMeters
	FieldRate
)

// ParseField maps the wire name of a field to its enum value.
func ParseField(name string) (Field, bool) {
	switch strings.TrimSpace(name) {
	case "name":
		return FieldName, true
	case "description":
		return FieldDescription, true
	case "pieces":
		return FieldPieces, true
	case "meters":
		return FieldMeters, true
	case "rate":
		return FieldRate, true
	default:
		return 0, false
	}
}

// Item is one row of goods on the slip. Pieces, Meters and Rate stay exactly
// as typed; Total is always derived and never stored independently.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"itemName"`
	Description string  `json:"itemDescription"`
	Pieces      string  `json:"pc"`
	Meters      string  `json:"totalMeter"`
	Rate        string  `json:"rate"`
	Total       float64 `json:"total"`
}

// NewItem returns a blank row with a fresh identifier.
func NewItem() Item {
	return Item{ID: uuid.NewString()}
}

// UpdateField applies a single-field update to the item with the given id and
// returns a new collection. An unknown id is a defined no-op. Editing the
// description re-derives Meters through the expression evaluator: a positive
// result overwrites any manually typed value, anything else clears it. The
// row total is recomputed after every update so it can never go stale.
func UpdateField(items []Item, id string, field Field, value string) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		switch field {
		case FieldName:
			out[i].Name = value
		case FieldDescription:
			out[i].Description = value
			if derived := expr.Evaluate(value); derived > 0 {
				out[i].Meters = strconv.FormatFloat(derived, 'f', -1, 64)
			} else {
				out[i].Meters = ""
			}
		case FieldPieces:
			out[i].Pieces = value
		case FieldMeters:
			out[i].Meters = value
		case FieldRate:
			out[i].Rate = value
		}
		out[i].Total = parseNumeric(out[i].Meters) * parseNumeric(out[i].Rate)
		break
	}
	return out
}

// AddItem appends one blank row, or returns the collection unchanged once the
// cap is reached.
func AddItem(items []Item) []Item {
	if len(items) >= MaxItems {
		return items
	}
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	return append(out, NewItem())
}

// RemoveItem drops the row with the given id. A missing id is a no-op; the
// result may be empty.
func RemoveItem(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			continue
		}
		out = append(out, it)
	}
	return out
}

// parseNumeric reads the leading float from a free-text field the way
// JavaScript's parseFloat does. Empty or unparsable input counts as zero so
// any keystroke state still yields a displayable total.
func parseNumeric(s string) float64 {
	trimmed := strings.TrimSpace(s)
	end := 0
	seenDigit := false
	seenDot := false
	for end < len(trimmed) {
		c := trimmed[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '+' || c == '-') && end == 0:
		default:
			goto done
		}
		end++
	}
done:
	if !seenDigit {
		return 0
	}
	value, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil {
		return 0
	}
	return value
}
