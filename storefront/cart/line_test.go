package cart

import (
	"encoding/json"
	"testing"

	"go-pharmacy/storefront/api"

	"github.com/stretchr/testify/assert"
)

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"null", 1},
		{"false", 1},
		{`""`, 1},
		{"0", 1},
		{"3", 3},
		{`"4"`, 4},
		{"2.0", 2},
		{"2.7", 0},
		{"0.5", 0},
		{"-2", 0},
		{`"lots"`, 0},
		{"true", 0},
		{"2147483647", 2147483647},
		{"2147483648", 0},
		{"1e30", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceQuantity(json.RawMessage(tt.raw)))
		})
	}
}

func TestLinesFromItems_FractionalQuantityIsMalformed(t *testing.T) {
	lines := linesFromItems([]api.CartItem{item("a", "10.00", "2.7")})
	assert.Equal(t, 0, lines[0].Quantity)
	assert.True(t, lines[0].Malformed())
	assert.True(t, lines[0].Amount().IsZero())
}
