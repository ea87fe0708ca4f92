package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	chain "github.com/wyfcoding/optionsdesk/internal/chain/domain"
	marketapp "github.com/wyfcoding/optionsdesk/internal/market/application"
	"github.com/wyfcoding/optionsdesk/internal/notify"
	"github.com/wyfcoding/optionsdesk/pkg/metrics"
)

// BuildParams 链构建入参
type BuildParams struct {
	Expiration int64
	Size       decimal.Decimal
	Underlying string
	Quote      string
}

// ChainService 期权链应用服务。
// 链是显式返回值，由调用方持有并随入参变化整体替换，服务内不留共享可变状态。
type ChainService struct {
	markets  *marketapp.MarketService
	notifier notify.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewChainService(markets *marketapp.MarketService, notifier notify.Notifier, logger *slog.Logger, m *metrics.Metrics) *ChainService {
	return &ChainService{markets: markets, notifier: notifier, logger: logger, metrics: m}
}

// Build 拉取注册表并构建链。任何构建失败都通过通知协作方上报，
// 并退化为空链而非向上传播。
func (s *ChainService) Build(ctx context.Context, params BuildParams) []chain.Row {
	start := time.Now()
	defer func() {
		s.metrics.ChainBuildsTotal.Inc()
		s.metrics.ChainBuildDuration.Observe(time.Since(start).Seconds())
	}()

	registry, err := s.markets.Registry(ctx)
	if err != nil {
		s.report(ctx, fmt.Errorf("failed to load market registry: %w", err))
		return nil
	}

	rows, err := chain.BuildChain(registry, params.Expiration, params.Size, params.Underlying, params.Quote)
	if err != nil {
		s.report(ctx, fmt.Errorf("failed to build options chain: %w", err))
		return nil
	}
	return rows
}

func (s *ChainService) report(ctx context.Context, err error) {
	s.logger.ErrorContext(ctx, "chain build degraded to empty", "error", err)
	s.notifier.Push(ctx, notify.SeverityError, err.Error())
}
