package cart

import (
	"bytes"
	"encoding/json"
	"math"

	"go-pharmacy/storefront/api"

	"github.com/shopspring/decimal"
)

// Line is one product and its quantity. A line whose price could not be read
// has an invalid Price; a line whose quantity could not be read has Quantity 0.
// Such lines are kept so they can be removed, and count as zero in totals.
type Line struct {
	ProductID string
	Name      string
	ImageURL  string
	Price     decimal.NullDecimal
	Quantity  int
}

// Malformed reports whether the line cannot be priced.
func (l Line) Malformed() bool {
	return !l.Price.Valid || l.Quantity < 1
}

// Amount is price times quantity, or zero for a malformed line.
func (l Line) Amount() decimal.Decimal {
	if l.Malformed() {
		return decimal.Zero
	}
	return l.Price.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func linesFromItems(items []api.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		l := Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Price:     coercePrice(item.Price),
			Quantity:  coerceQuantity(item.Quantity),
		}
		// Duplicate entries for a product are merged.
		if i, ok := seen[l.ProductID]; ok {
			if !lines[i].Malformed() && !l.Malformed() {
				lines[i].Quantity += l.Quantity
			}
			continue
		}
		seen[l.ProductID] = len(lines)
		lines = append(lines, l)
	}
	return lines
}

func isEmpty(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func coercePrice(raw json.RawMessage) decimal.NullDecimal {
	if isEmpty(raw) {
		return decimal.NullDecimal{}
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// maxQuantity bounds the quantities accepted from the API.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// coerceQuantity defaults a missing or zero quantity to 1 and maps anything
// unreadable, fractional or out of range to 0.
func coerceQuantity(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if isEmpty(raw) || bytes.Equal(raw, []byte("false")) || bytes.Equal(raw, []byte(`""`)) {
		return 1
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return 0
	}
	switch {
	case d.IsZero():
		return 1
	case d.LessThan(decimal.NewFromInt(1)), !d.Equal(d.Truncate(0)), d.GreaterThan(maxQuantity):
		return 0
	}
	return int(d.IntPart())
}
