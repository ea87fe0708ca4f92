package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketapp "github.com/wyfcoding/optionsdesk/internal/market/application"
	market "github.com/wyfcoding/optionsdesk/internal/market/domain"
	"github.com/wyfcoding/optionsdesk/internal/notify"
	"github.com/wyfcoding/optionsdesk/pkg/metrics"
)

type fakeMarketRepo struct {
	markets []*market.OptionMarket
	err     error
}

func (f *fakeMarketRepo) List(ctx context.Context) ([]*market.OptionMarket, error) {
	return f.markets, f.err
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Push(ctx context.Context, severity notify.Severity, message string) {
	r.messages = append(r.messages, message)
}

func newService(repo *fakeMarketRepo, notifier notify.Notifier) *ChainService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	markets := marketapp.NewMarketService(repo, logger)
	return NewChainService(markets, notifier, logger, metrics.New("test"))
}

func TestChainService_Build(t *testing.T) {
	repo := &fakeMarketRepo{markets: []*market.OptionMarket{{
		Expiration:             1700000000,
		Underlying:             "BTC",
		Quote:                  "USDC",
		AmountPerContract:      decimal.NewFromInt(1),
		QuoteAmountPerContract: decimal.NewFromInt(30000),
	}}}
	svc := newService(repo, &recordingNotifier{})

	rows := svc.Build(context.Background(), BuildParams{
		Expiration: 1700000000,
		Size:       decimal.NewFromInt(1),
		Underlying: "BTC",
		Quote:      "USDC",
	})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Call.Initialized)
	assert.False(t, rows[0].Put.Initialized)
}

func TestChainService_RegistryFailureDegradesToEmpty(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newService(&fakeMarketRepo{err: errors.New("rpc unavailable")}, notifier)

	rows := svc.Build(context.Background(), BuildParams{
		Expiration: 1700000000,
		Size:       decimal.NewFromInt(1),
		Underlying: "BTC",
		Quote:      "USDC",
	})
	assert.Empty(t, rows)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "rpc unavailable")
}

func TestChainService_MalformedMarketDegradesToEmpty(t *testing.T) {
	notifier := &recordingNotifier{}
	repo := &fakeMarketRepo{markets: []*market.OptionMarket{{
		Expiration:             1700000000,
		Underlying:             "BTC",
		Quote:                  "USDC",
		AmountPerContract:      decimal.Zero, // 违反数量不变式
		QuoteAmountPerContract: decimal.NewFromInt(30000),
	}}}
	svc := newService(repo, notifier)

	rows := svc.Build(context.Background(), BuildParams{
		Expiration: 1700000000,
		Size:       decimal.NewFromInt(1),
		Underlying: "BTC",
		Quote:      "USDC",
	})
	assert.Empty(t, rows)
	assert.Len(t, notifier.messages, 1)
}
