package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCollateralRequired(t *testing.T) {
	tests := []struct {
		name              string
		amountPerContract string
		orderSize         string
		heldPosition      string
		want              string
	}{
		{"held position offsets collateral", "1", "10", "3", "7"},
		{"no position", "1", "10", "0", "10"},
		{"position covers everything", "1", "3", "10", "0"},
		{"fractional contract size", "0.1", "10", "3", "0.7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CollateralRequired(
				decimal.RequireFromString(tc.amountPerContract),
				decimal.RequireFromString(tc.orderSize),
				decimal.RequireFromString(tc.heldPosition),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"want %s, got %s", tc.want, got)
		})
	}
}

func TestContractsToMint(t *testing.T) {
	// 负值表示净减少已写头寸，必须原样返回而不是拒绝
	got := ContractsToMint(decimal.NewFromInt(2), decimal.NewFromInt(5))
	assert.True(t, got.Equal(decimal.NewFromInt(-3)))

	got = ContractsToMint(decimal.NewFromInt(5), decimal.NewFromInt(2))
	assert.True(t, got.Equal(decimal.NewFromInt(3)))
}

func TestHighestAccount(t *testing.T) {
	accounts := []TokenAccount{
		{Address: "a", Mint: "m", Amount: decimal.NewFromInt(5)},
		{Address: "b", Mint: "m", Amount: decimal.NewFromInt(9)},
		{Address: "c", Mint: "m", Amount: decimal.NewFromInt(1)},
	}

	highest, ok := HighestAccount(accounts)
	assert.True(t, ok)
	assert.Equal(t, "b", highest.Address)

	_, ok = HighestAccount(nil)
	assert.False(t, ok)
}
