package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbook "github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
)

func TestBreakevenLimit(t *testing.T) {
	tests := []struct {
		name              string
		strike            string
		perContractAmount string
		limitPrice        string
		isPut             bool
		want              string
	}{
		{"call premium raises breakeven", "100", "1", "5", false, "105"},
		{"put premium lowers breakeven", "100", "1", "5", true, "95"},
		{"put quote-sized contract", "100", "100", "5", true, "99.95"},
		{"zero premium", "100", "1", "0", false, "100"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BreakevenLimit(
				decimal.RequireFromString(tc.strike),
				decimal.RequireFromString(tc.perContractAmount),
				decimal.RequireFromString(tc.limitPrice),
				tc.isPut,
			)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"want %s, got %s", tc.want, got)
		})
	}
}

func TestBreakevenLimit_InvalidContractAmount(t *testing.T) {
	_, err := BreakevenLimit(decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(5), false)
	assert.ErrorIs(t, err, ErrInvalidContractAmount)
}

func TestBreakevenMarket_SingleLevel(t *testing.T) {
	asks := []orderbook.Level{level("5", "10")}

	got, err := BreakevenMarket(
		decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.NewFromInt(2), asks, false)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(105)), "got %s", got)
}

func TestBreakevenMarket_AveragesAcrossLevels(t *testing.T) {
	// premium = 1×5 + 1×6 = 11, per contract 5.5, per unit 5.5
	asks := []orderbook.Level{level("5", "1"), level("6", "1")}

	got, err := BreakevenMarket(
		decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.NewFromInt(2), asks, false)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("105.5")), "got %s", got)
}

func TestBreakevenMarket_Put(t *testing.T) {
	asks := []orderbook.Level{level("5", "10")}

	got, err := BreakevenMarket(
		decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.NewFromInt(2), asks, true)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(95)), "got %s", got)
}

func TestBreakevenMarket_InsufficientLiquidity(t *testing.T) {
	asks := []orderbook.Level{level("5", "1")}

	_, err := BreakevenMarket(
		decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.NewFromInt(2), asks, false)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = BreakevenMarket(
		decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.NewFromInt(1), nil, false)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestBreakevenMarket_InvalidInputs(t *testing.T) {
	asks := []orderbook.Level{level("5", "10")}

	_, err := BreakevenMarket(decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.Zero, asks, false)
	assert.ErrorIs(t, err, ErrInvalidOrderSize)

	_, err = BreakevenMarket(decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(1), asks, false)
	assert.ErrorIs(t, err, ErrInvalidContractAmount)
}
