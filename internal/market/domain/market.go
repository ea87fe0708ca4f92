// Package domain 期权市场注册表的领域模型
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidContractAmount 合约数量字段必须为正数
	ErrInvalidContractAmount = errors.New("amount per contract and quote amount per contract must be positive")
)

// MarketKey 市场的规范身份，结构化等价替代字符串拼接键
type MarketKey struct {
	Expiration int64 // unix 秒
	Underlying string
	Quote      string
	// 以下三个字段为规范化的十进制字符串，保证结构相等即数值相等
	Size                   string
	AmountPerContract      string
	QuoteAmountPerContract string
}

// NewMarketKey 由原始字段构建规范键，数量字段统一用规范十进制编码
func NewMarketKey(expiration int64, underlying, quote string, size, amount, quoteAmount decimal.Decimal) MarketKey {
	return MarketKey{
		Expiration:             expiration,
		Underlying:             underlying,
		Quote:                  quote,
		Size:                   Canonical(size),
		AmountPerContract:      Canonical(amount),
		QuoteAmountPerContract: Canonical(quoteAmount),
	}
}

// String 渲染为 "{exp}-{u}-{q}-{size}-{amt}/{qamt}" 形式，仅用于日志与展示
func (k MarketKey) String() string {
	return fmt.Sprintf("%d-%s-%s-%s-%s/%s",
		k.Expiration, k.Underlying, k.Quote, k.Size,
		k.AmountPerContract, k.QuoteAmountPerContract)
}

// OptionMarket 一个已初始化的链上期权市场，加载后不可变，重新拉取整体替换
type OptionMarket struct {
	Expiration int64
	Underlying string
	Quote      string

	// 每张合约锁定的标的数量与行权所需的计价数量
	AmountPerContract      decimal.Decimal
	QuoteAmountPerContract decimal.Decimal

	UnderlyingDecimals int32
	QuoteDecimals      int32

	// 链上地址
	UnderlyingMint   string
	QuoteMint        string
	OptionMint       string
	WriterTokenMint  string
	UnderlyingPool   string
	QuotePool        string
	OrderBookAddress string // 关联的订单簿市场，可为空
}

// Validate 校验数量不变式
func (m *OptionMarket) Validate() error {
	if !m.AmountPerContract.IsPositive() || !m.QuoteAmountPerContract.IsPositive() {
		return fmt.Errorf("%w: market %s", ErrInvalidContractAmount, m.Key())
	}
	return nil
}

// Key 返回市场的规范身份。合约规模按 call 约定取 AmountPerContract
func (m *OptionMarket) Key() MarketKey {
	return NewMarketKey(m.Expiration, m.Underlying, m.Quote,
		m.AmountPerContract, m.AmountPerContract, m.QuoteAmountPerContract)
}

// Strike 行权价 = quoteAmount / amount（quote/underlying 约定）
func (m *OptionMarket) Strike() decimal.Decimal {
	return m.QuoteAmountPerContract.Div(m.AmountPerContract)
}

// Size 合约规模的规范字符串编码
func (m *OptionMarket) Size() string {
	return Canonical(m.AmountPerContract)
}

// Canonical 十进制值的规范字符串编码，保证同值同编码
func Canonical(d decimal.Decimal) string {
	return d.String()
}
