package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredBuyback(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		yieldPct  int64
		want      int64
	}{
		{"ten percent", 1000, 10, 1100},
		{"five percent", 1000, 5, 1050},
		{"zero yield", 1000, 0, 1000},
		{"truncates toward zero", 999, 10, 1098},
		{"negative yield truncates toward zero", 10, -25, 8},
		{"negative total floors at zero", 10, -200, 0},
		{"full loss", 1000, -100, 0},
		{"zero principal", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredBuyback(tt.principal, tt.yieldPct)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequiredBuybackWidensIntermediate(t *testing.T) {
	// principal*yield 超出 int64，但最终结果仍然可表示
	principal := int64(4_000_000_000_000_000_000)
	got, err := RequiredBuyback(principal, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(8_000_000_000_000_000_000), got)
}

func TestRequiredBuybackOverflow(t *testing.T) {
	_, err := RequiredBuyback(math.MaxInt64, 10)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}
