package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	market "github.com/wyfcoding/optionsdesk/internal/market/domain"
	"github.com/wyfcoding/optionsdesk/internal/notify"
	orderbook "github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
	"github.com/wyfcoding/optionsdesk/internal/orderflow/domain"
	pricing "github.com/wyfcoding/optionsdesk/internal/pricing/domain"
	"github.com/wyfcoding/optionsdesk/pkg/metrics"
)

// ErrOrderInFlight 同一编排实例同时只允许一笔订单在途
var ErrOrderInFlight = errors.New("another order submission is in flight")

// OrderParams 买卖共用的下单意图
type OrderParams struct {
	Owner              string
	Market             *market.OptionMarket
	OrderSize          decimal.Decimal
	IsMarketOrder      bool
	LimitPrice         decimal.Decimal
	FeeRates           domain.FeeRates
	FeeDiscountAddress string
}

// SellOrder 组装完成的卖出请求及其派生数值
type SellOrder struct {
	Request                 *domain.OrderRequest
	ContractsToMint         decimal.Decimal
	CollateralRequired      decimal.Decimal
	UnderlyingSource        string
	MintedOptionDestination string
	WriterTokenDestination  string
}

// BuyOrder 组装完成的买入请求
type BuyOrder struct {
	Request           *domain.OrderRequest
	OptionDestination string
}

// OrderService 下单编排：解析账户、计算抵押、选择费率档并组装订单请求。
// 交易本身委托给外部提交协作方。
type OrderService struct {
	accounts  domain.TokenAccountSource
	books     orderbook.SnapshotRepository
	submitter domain.OrderSubmitter
	notifier  notify.Notifier
	logger    *slog.Logger
	metrics   *metrics.Metrics

	// 在途守卫，成功与失败路径都必须清除
	inFlight atomic.Bool
}

func NewOrderService(
	accounts domain.TokenAccountSource,
	books orderbook.SnapshotRepository,
	submitter domain.OrderSubmitter,
	notifier notify.Notifier,
	logger *slog.Logger,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		accounts:  accounts,
		books:     books,
		submitter: submitter,
		notifier:  notifier,
		logger:    logger,
		metrics:   m,
	}
}

// BuildSellOrderRequest 组装卖出（covered write）订单请求。
// 市价单的执行价取买盘滑点行走价；限价单在价格触及最优买价时选 taker 费率。
func (s *OrderService) BuildSellOrderRequest(params OrderParams, book *orderbook.Snapshot) (*SellOrder, error) {
	m := params.Market

	optionAccount, _ := domain.HighestAccount(s.accounts.AccountsByMint(m.OptionMint))
	writerAccount, _ := domain.HighestAccount(s.accounts.AccountsByMint(m.WriterTokenMint))
	underlyingAccount, ok := domain.HighestAccount(s.accounts.AccountsByMint(m.UnderlyingMint))
	if !ok {
		return nil, fmt.Errorf("%w: underlying mint %s", domain.ErrNoTokenAccount, m.UnderlyingMint)
	}

	heldPosition := optionAccount.Amount

	price := params.LimitPrice
	if params.IsMarketOrder {
		walked, err := pricing.PriceWithSlippage(params.OrderSize, bookBids(book))
		if err != nil {
			s.metrics.PricingFailuresTotal.Inc()
			return nil, fmt.Errorf("failed to price market sell: %w", err)
		}
		price = walked
	}

	req := &domain.OrderRequest{
		ClientOrderID: uuid.NewString(),
		Side:          domain.SideSell,
		Price:         price,
		Size:          params.OrderSize,
		Kind:          orderKind(params.IsMarketOrder),
		Owner:         params.Owner,
		// 卖出时被卖出的资产是期权代币
		Payer:              optionAccount.Address,
		FeeDiscountAddress: params.FeeDiscountAddress,
		FeeRate:            sellFeeRate(params, price, book),
	}

	return &SellOrder{
		Request:                 req,
		ContractsToMint:         domain.ContractsToMint(params.OrderSize, heldPosition),
		CollateralRequired:      domain.CollateralRequired(m.AmountPerContract, params.OrderSize, heldPosition),
		UnderlyingSource:        underlyingAccount.Address,
		MintedOptionDestination: optionAccount.Address,
		WriterTokenDestination:  writerAccount.Address,
	}, nil
}

// BuildBuyOrderRequest 组装买入订单请求。
// payer 是持有订单簿市场结算计价 mint 的账户，而非名义计价资产。
func (s *OrderService) BuildBuyOrderRequest(params OrderParams, book *orderbook.Snapshot) (*BuyOrder, error) {
	m := params.Market

	quoteMint := m.QuoteMint
	if book != nil && book.QuoteMint != "" {
		quoteMint = book.QuoteMint
	}
	quoteAccount, ok := domain.HighestAccount(s.accounts.AccountsByMint(quoteMint))
	if !ok {
		return nil, fmt.Errorf("%w: quote mint %s", domain.ErrNoTokenAccount, quoteMint)
	}
	optionAccount, _ := domain.HighestAccount(s.accounts.AccountsByMint(m.OptionMint))

	price := params.LimitPrice
	if params.IsMarketOrder {
		walked, err := pricing.PriceWithSlippage(params.OrderSize, bookAsks(book))
		if err != nil {
			s.metrics.PricingFailuresTotal.Inc()
			return nil, fmt.Errorf("failed to price market buy: %w", err)
		}
		price = walked
	}

	req := &domain.OrderRequest{
		ClientOrderID:      uuid.NewString(),
		Side:               domain.SideBuy,
		Price:              price,
		Size:               params.OrderSize,
		Kind:               orderKind(params.IsMarketOrder),
		Owner:              params.Owner,
		Payer:              quoteAccount.Address,
		FeeDiscountAddress: params.FeeDiscountAddress,
		FeeRate:            buyFeeRate(params, price, book),
	}

	return &BuyOrder{
		Request:           req,
		OptionDestination: optionAccount.Address,
	}, nil
}

// PlaceSellOrder 执行卖出编排并提交。失败会上报通知并清除在途标记，可立即重试。
func (s *OrderService) PlaceSellOrder(ctx context.Context, params OrderParams) (*SellOrder, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrOrderInFlight
	}
	defer s.inFlight.Store(false)

	order, err := s.placeSell(ctx, params)
	if err != nil {
		s.metrics.OrderFailuresTotal.Inc()
		s.logger.ErrorContext(ctx, "sell order failed", "error", err)
		s.notifier.Push(ctx, notify.SeverityError, err.Error())
		return nil, err
	}
	s.metrics.OrdersPlacedTotal.WithLabelValues(string(domain.SideSell)).Inc()
	s.notifier.Push(ctx, notify.SeveritySuccess,
		fmt.Sprintf("sell order %s placed", order.Request.ClientOrderID))
	return order, nil
}

func (s *OrderService) placeSell(ctx context.Context, params OrderParams) (*SellOrder, error) {
	book, err := s.books.Get(ctx, params.Market.OrderBookAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orderbook snapshot: %w", err)
	}
	order, err := s.BuildSellOrderRequest(params, book)
	if err != nil {
		return nil, err
	}
	if err := s.submitter.Submit(ctx, order.Request); err != nil {
		return nil, fmt.Errorf("order submission rejected: %w", err)
	}
	return order, nil
}

// PlaceBuyOrder 执行买入编排并提交
func (s *OrderService) PlaceBuyOrder(ctx context.Context, params OrderParams) (*BuyOrder, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrOrderInFlight
	}
	defer s.inFlight.Store(false)

	order, err := s.placeBuy(ctx, params)
	if err != nil {
		s.metrics.OrderFailuresTotal.Inc()
		s.logger.ErrorContext(ctx, "buy order failed", "error", err)
		s.notifier.Push(ctx, notify.SeverityError, err.Error())
		return nil, err
	}
	s.metrics.OrdersPlacedTotal.WithLabelValues(string(domain.SideBuy)).Inc()
	s.notifier.Push(ctx, notify.SeveritySuccess,
		fmt.Sprintf("buy order %s placed", order.Request.ClientOrderID))
	return order, nil
}

func (s *OrderService) placeBuy(ctx context.Context, params OrderParams) (*BuyOrder, error) {
	book, err := s.books.Get(ctx, params.Market.OrderBookAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orderbook snapshot: %w", err)
	}
	order, err := s.BuildBuyOrderRequest(params, book)
	if err != nil {
		return nil, err
	}
	if err := s.submitter.Submit(ctx, order.Request); err != nil {
		return nil, fmt.Errorf("order submission rejected: %w", err)
	}
	return order, nil
}

func orderKind(isMarketOrder bool) domain.Kind {
	if isMarketOrder {
		return domain.KindIOC
	}
	return domain.KindLimit
}

// sellFeeRate 市价单恒为 taker；限价卖出价格不高于最优买价时会立即成交，同样取 taker。
// 其余情况不设置，由场所按 maker 结算。
func sellFeeRate(params OrderParams, price decimal.Decimal, book *orderbook.Snapshot) *decimal.Decimal {
	if params.IsMarketOrder {
		taker := params.FeeRates.Taker
		return &taker
	}
	if bestBid, ok := book.BestBid(); ok && price.LessThanOrEqual(bestBid.Price) {
		taker := params.FeeRates.Taker
		return &taker
	}
	return nil
}

// buyFeeRate 镜像规则：限价买入价格不低于最优卖价时取 taker
func buyFeeRate(params OrderParams, price decimal.Decimal, book *orderbook.Snapshot) *decimal.Decimal {
	if params.IsMarketOrder {
		taker := params.FeeRates.Taker
		return &taker
	}
	if bestAsk, ok := book.BestAsk(); ok && price.GreaterThanOrEqual(bestAsk.Price) {
		taker := params.FeeRates.Taker
		return &taker
	}
	return nil
}

func bookBids(book *orderbook.Snapshot) []orderbook.Level {
	if book == nil {
		return nil
	}
	return book.Bids
}

func bookAsks(book *orderbook.Snapshot) []orderbook.Level {
	if book == nil {
		return nil
	}
	return book.Asks
}
