package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbook "github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
)

func level(price, size string) orderbook.Level {
	return orderbook.Level{
		Price: decimal.RequireFromString(price),
		Size:  decimal.RequireFromString(size),
	}
}

func TestPriceWithSlippage_WorstPriceTouched(t *testing.T) {
	asks := []orderbook.Level{
		level("5", "1"),
		level("6", "2"),
		level("8", "10"),
	}

	tests := []struct {
		name      string
		orderSize string
		want      string
	}{
		{"fills at best level", "1", "5"},
		{"crosses into second level", "2", "6"},
		{"exact boundary of second level", "3", "6"},
		{"deep walk", "10", "8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			price, err := PriceWithSlippage(decimal.RequireFromString(tc.orderSize), asks)
			require.NoError(t, err)
			assert.True(t, price.Equal(decimal.RequireFromString(tc.want)),
				"want %s, got %s", tc.want, price)
		})
	}
}

func TestPriceWithSlippage_InsufficientLiquidity(t *testing.T) {
	asks := []orderbook.Level{level("5", "1"), level("6", "2")}

	_, err := PriceWithSlippage(decimal.NewFromInt(4), asks)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = PriceWithSlippage(decimal.NewFromInt(1), nil)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestPriceWithSlippage_InvalidOrderSize(t *testing.T) {
	asks := []orderbook.Level{level("5", "1")}

	_, err := PriceWithSlippage(decimal.Zero, asks)
	assert.ErrorIs(t, err, ErrInvalidOrderSize)

	_, err = PriceWithSlippage(decimal.NewFromInt(-1), asks)
	assert.ErrorIs(t, err, ErrInvalidOrderSize)
}

// 买向走卖盘（升序）时，加大数量不会得到更低的最差价；
// 卖向走买盘（降序）时，加大数量不会得到更高的最差价。
func TestPriceWithSlippage_Monotonic(t *testing.T) {
	asks := []orderbook.Level{level("5", "1"), level("6", "3"), level("9", "5")}
	bids := []orderbook.Level{level("4.9", "1"), level("4.5", "3"), level("3", "5")}

	prev := decimal.Zero
	for size := int64(1); size <= 9; size++ {
		price, err := PriceWithSlippage(decimal.NewFromInt(size), asks)
		require.NoError(t, err)
		assert.True(t, price.GreaterThanOrEqual(prev), "ask walk must be non-decreasing")
		prev = price
	}

	prev = decimal.NewFromInt(1000)
	for size := int64(1); size <= 9; size++ {
		price, err := PriceWithSlippage(decimal.NewFromInt(size), bids)
		require.NoError(t, err)
		assert.True(t, price.LessThanOrEqual(prev), "bid walk must be non-increasing")
		prev = price
	}
}
