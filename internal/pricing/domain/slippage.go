// Package domain 下单定价引擎：滑点行走执行价与保本价，全部为纯函数
package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	orderbook "github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
)

var (
	// ErrInsufficientLiquidity 订单簿深度不足以完全成交请求数量。
	// 与"价格为零"显式区分，调用方据此阻止提交或回退限价单。
	ErrInsufficientLiquidity = errors.New("insufficient liquidity to fill order size")

	// ErrInvalidOrderSize 订单数量必须为正
	ErrInvalidOrderSize = errors.New("order size must be positive")

	// ErrInvalidContractAmount 每张合约的数量必须为正
	ErrInvalidContractAmount = errors.New("per contract amount must be positive")
)

// PriceWithSlippage 沿订单簿档位（最优价在前）累计可用数量，
// 返回累计数量跨过 orderSize 时所在档位的价格，即完全成交触及的最差价。
// 不做数量加权平均，给出的是保守而非乐观的估计。
func PriceWithSlippage(orderSize decimal.Decimal, levels []orderbook.Level) (decimal.Decimal, error) {
	if !orderSize.IsPositive() {
		return decimal.Zero, ErrInvalidOrderSize
	}

	cumulative := decimal.Zero
	for _, level := range levels {
		cumulative = cumulative.Add(level.Size)
		if cumulative.GreaterThanOrEqual(orderSize) {
			return level.Price, nil
		}
	}
	return decimal.Zero, ErrInsufficientLiquidity
}
