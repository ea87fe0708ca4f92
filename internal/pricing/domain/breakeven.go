package domain

import (
	"github.com/shopspring/decimal"

	orderbook "github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
)

// BreakevenMarket 市价单保本价：沿订单簿行走 orderSize 张合约得到的总权利金，
// 折算到每单位标的后，call 加到行权价上，put 从行权价中扣除。
// perContractAmount：call 为每张合约的标的数量，put 为每张合约的计价数量。
// 深度不足以完全成交时返回 ErrInsufficientLiquidity，不用部分成交出价。
func BreakevenMarket(strike, perContractAmount, orderSize decimal.Decimal, levels []orderbook.Level, isPut bool) (decimal.Decimal, error) {
	if !orderSize.IsPositive() {
		return decimal.Zero, ErrInvalidOrderSize
	}
	if !perContractAmount.IsPositive() {
		return decimal.Zero, ErrInvalidContractAmount
	}

	premium, err := walkPremium(orderSize, levels)
	if err != nil {
		return decimal.Zero, err
	}

	// 每张合约的权利金 → 每单位标的的权利金
	perUnit := premium.Div(orderSize).Div(perContractAmount)
	if isPut {
		return strike.Sub(perUnit), nil
	}
	return strike.Add(perUnit), nil
}

// BreakevenLimit 限价单保本价：直接采用用户输入的限价，不依赖订单簿深度。
func BreakevenLimit(strike, perContractAmount, limitPrice decimal.Decimal, isPut bool) (decimal.Decimal, error) {
	if !perContractAmount.IsPositive() {
		return decimal.Zero, ErrInvalidContractAmount
	}

	perUnit := limitPrice.Div(perContractAmount)
	if isPut {
		return strike.Sub(perUnit), nil
	}
	return strike.Add(perUnit), nil
}

// walkPremium 行走订单簿累计成交金额，remaining 归零前耗尽档位视为流动性不足
func walkPremium(orderSize decimal.Decimal, levels []orderbook.Level) (decimal.Decimal, error) {
	remaining := orderSize
	total := decimal.Zero
	for _, level := range levels {
		take := decimal.Min(remaining, level.Size)
		total = total.Add(take.Mul(level.Price))
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			return total, nil
		}
	}
	return decimal.Zero, ErrInsufficientLiquidity
}
