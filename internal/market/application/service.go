package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionsdesk/internal/market/domain"
)

// MarketService 市场注册表应用服务
type MarketService struct {
	repo   domain.MarketRepository
	logger *slog.Logger
}

func NewMarketService(repo domain.MarketRepository, logger *slog.Logger) *MarketService {
	return &MarketService{repo: repo, logger: logger}
}

// Registry 拉取最新市场记录并归一化为注册表快照
func (s *MarketService) Registry(ctx context.Context) (domain.Registry, error) {
	markets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option markets: %w", err)
	}
	registry, err := domain.NormalizeMarkets(markets)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "market registry refreshed", "markets", len(registry))
	return registry, nil
}

// Find 按身份元组查找单个市场，不存在返回 (nil, false)
func (s *MarketService) Find(ctx context.Context, expiration int64, underlying, quote string, amount, quoteAmount decimal.Decimal) (*domain.OptionMarket, bool, error) {
	registry, err := s.Registry(ctx)
	if err != nil {
		return nil, false, err
	}
	key := domain.NewMarketKey(expiration, underlying, quote, amount, amount, quoteAmount)
	m, ok := registry.Lookup(key)
	return m, ok, nil
}
