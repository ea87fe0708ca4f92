package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarket(expiration int64, underlying, quote, amount, quoteAmount string) *OptionMarket {
	return &OptionMarket{
		Expiration:             expiration,
		Underlying:             underlying,
		Quote:                  quote,
		AmountPerContract:      decimal.RequireFromString(amount),
		QuoteAmountPerContract: decimal.RequireFromString(quoteAmount),
		UnderlyingMint:         "mint-" + underlying,
		QuoteMint:              "mint-" + quote,
		OptionMint:             "mint-option",
		WriterTokenMint:        "mint-writer",
	}
}

func TestNormalizeMarkets_RoundTrip(t *testing.T) {
	markets := []*OptionMarket{
		newMarket(1700000000, "BTC", "USDC", "1", "30000"),
		newMarket(1700000000, "BTC", "USDC", "1", "35000"),
		newMarket(1700000000, "USDC", "BTC", "30000", "1"),
	}

	registry, err := NormalizeMarkets(markets)
	require.NoError(t, err)
	require.Len(t, registry, 3)

	for _, m := range markets {
		got, ok := registry.Lookup(m.Key())
		require.True(t, ok, "lookup by re-derived key must hit")
		assert.Same(t, m, got)
	}
}

func TestNormalizeMarkets_LastWriteWins(t *testing.T) {
	first := newMarket(1700000000, "BTC", "USDC", "1", "30000")
	second := newMarket(1700000000, "BTC", "USDC", "1", "30000")
	second.OrderBookAddress = "book-refreshed"

	registry, err := NormalizeMarkets([]*OptionMarket{first, second})
	require.NoError(t, err)
	require.Len(t, registry, 1)

	got, ok := registry.Lookup(first.Key())
	require.True(t, ok)
	assert.Equal(t, "book-refreshed", got.OrderBookAddress)
}

func TestNormalizeMarkets_RejectsNonPositiveAmounts(t *testing.T) {
	bad := newMarket(1700000000, "BTC", "USDC", "0", "30000")

	_, err := NormalizeMarkets([]*OptionMarket{bad})
	assert.ErrorIs(t, err, ErrInvalidContractAmount)
}

func TestMarketKey_CanonicalEncoding(t *testing.T) {
	// 同值不同标度的十进制编码必须落在同一个键上
	a := NewMarketKey(1700000000, "BTC", "USDC",
		decimal.RequireFromString("1.0"),
		decimal.RequireFromString("1.0"),
		decimal.RequireFromString("30000.00"))
	b := NewMarketKey(1700000000, "BTC", "USDC",
		decimal.NewFromInt(1),
		decimal.NewFromInt(1),
		decimal.NewFromInt(30000))

	assert.Equal(t, a, b)
	assert.Equal(t, "1700000000-BTC-USDC-1-1/30000", a.String())
}

func TestOptionMarket_Strike(t *testing.T) {
	m := newMarket(1700000000, "BTC", "USDC", "2", "70000")
	assert.True(t, m.Strike().Equal(decimal.NewFromInt(35000)))
}
