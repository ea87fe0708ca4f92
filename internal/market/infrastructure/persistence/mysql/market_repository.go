package mysql

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/optionsdesk/internal/market/domain"
)

// MarketModel 持久化映射，数量字段以定点 decimal 存储
type MarketModel struct {
	gorm.Model
	Expiration             int64           `gorm:"column:expiration;index:idx_identity,unique;not null"`
	Underlying             string          `gorm:"column:underlying;type:varchar(16);index:idx_identity,unique;not null"`
	Quote                  string          `gorm:"column:quote;type:varchar(16);index:idx_identity,unique;not null"`
	AmountPerContract      decimal.Decimal `gorm:"column:amount_per_contract;type:decimal(30,15);index:idx_identity,unique;not null"`
	QuoteAmountPerContract decimal.Decimal `gorm:"column:quote_amount_per_contract;type:decimal(30,15);index:idx_identity,unique;not null"`
	UnderlyingDecimals     int32           `gorm:"column:underlying_decimals;not null"`
	QuoteDecimals          int32           `gorm:"column:quote_decimals;not null"`
	UnderlyingMint         string          `gorm:"column:underlying_mint;type:varchar(64);not null"`
	QuoteMint              string          `gorm:"column:quote_mint;type:varchar(64);not null"`
	OptionMint             string          `gorm:"column:option_mint;type:varchar(64);not null"`
	WriterTokenMint        string          `gorm:"column:writer_token_mint;type:varchar(64);not null"`
	UnderlyingPool         string          `gorm:"column:underlying_pool;type:varchar(64)"`
	QuotePool              string          `gorm:"column:quote_pool;type:varchar(64)"`
	OrderBookAddress       string          `gorm:"column:orderbook_address;type:varchar(64)"`
}

func (MarketModel) TableName() string { return "option_markets" }

func (m *MarketModel) toDomain() *domain.OptionMarket {
	return &domain.OptionMarket{
		Expiration:             m.Expiration,
		Underlying:             m.Underlying,
		Quote:                  m.Quote,
		AmountPerContract:      m.AmountPerContract,
		QuoteAmountPerContract: m.QuoteAmountPerContract,
		UnderlyingDecimals:     m.UnderlyingDecimals,
		QuoteDecimals:          m.QuoteDecimals,
		UnderlyingMint:         m.UnderlyingMint,
		QuoteMint:              m.QuoteMint,
		OptionMint:             m.OptionMint,
		WriterTokenMint:        m.WriterTokenMint,
		UnderlyingPool:         m.UnderlyingPool,
		QuotePool:              m.QuotePool,
		OrderBookAddress:       m.OrderBookAddress,
	}
}

// MarketRepo 基于 MySQL 的市场记录仓储
type MarketRepo struct {
	db *gorm.DB
}

func NewMarketRepo(db *gorm.DB) *MarketRepo {
	return &MarketRepo{db: db}
}

// List 返回全部已确认初始化的市场
func (r *MarketRepo) List(ctx context.Context) ([]*domain.OptionMarket, error) {
	var models []*MarketModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list option markets: %w", err)
	}
	markets := make([]*domain.OptionMarket, 0, len(models))
	for _, m := range models {
		markets = append(markets, m.toDomain())
	}
	return markets, nil
}

// Save 确认初始化后的市场落库，identity 冲突时覆盖地址字段
func (r *MarketRepo) Save(ctx context.Context, m *domain.OptionMarket) error {
	model := &MarketModel{
		Expiration:             m.Expiration,
		Underlying:             m.Underlying,
		Quote:                  m.Quote,
		AmountPerContract:      m.AmountPerContract,
		QuoteAmountPerContract: m.QuoteAmountPerContract,
		UnderlyingDecimals:     m.UnderlyingDecimals,
		QuoteDecimals:          m.QuoteDecimals,
		UnderlyingMint:         m.UnderlyingMint,
		QuoteMint:              m.QuoteMint,
		OptionMint:             m.OptionMint,
		WriterTokenMint:        m.WriterTokenMint,
		UnderlyingPool:         m.UnderlyingPool,
		QuotePool:              m.QuotePool,
		OrderBookAddress:       m.OrderBookAddress,
	}

	var exist MarketModel
	err := r.db.WithContext(ctx).
		Where("expiration = ? AND underlying = ? AND quote = ? AND amount_per_contract = ? AND quote_amount_per_contract = ?",
			m.Expiration, m.Underlying, m.Quote, m.AmountPerContract, m.QuoteAmountPerContract).
		First(&exist).Error
	if err == nil {
		model.ID = exist.ID
		model.CreatedAt = exist.CreatedAt
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save option market: %w", err)
	}
	return nil
}
