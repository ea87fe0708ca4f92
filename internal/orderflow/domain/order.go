// Package domain 下单编排的领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoTokenAccount 必要腿上找不到可用的代币账户
	ErrNoTokenAccount = errors.New("no token account found for required mint")
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Kind 下发到撮合场所的订单类型。市价单以 IOC 形式提交。
type Kind string

const (
	KindLimit Kind = "limit"
	KindIOC   Kind = "ioc"
)

// FeeRates 场所公布的费率档
type FeeRates struct {
	Maker decimal.Decimal
	Taker decimal.Decimal
}

// OrderRequest 提交给外部撮合协作方的完整订单描述，每次提交新建，不复用。
// FeeRate 为 nil 表示不覆写，由场所按 maker 结算。
type OrderRequest struct {
	ClientOrderID string
	Side          Side
	Price         decimal.Decimal
	Size          decimal.Decimal
	Kind          Kind
	Owner         string
	// 对撮合场所而言 payer 是被卖出资产所在的账户
	Payer              string
	FeeDiscountAddress string
	FeeRate            *decimal.Decimal
}

// OrderSubmitter 订单提交协作方：链上交易的组装与签名在此之后发生
type OrderSubmitter interface {
	Submit(ctx context.Context, req *OrderRequest) error
}
