// Package domain 订单簿快照的领域模型
package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Level 一个价格档位 (price, size)
type Level struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Snapshot 某一订单簿市场的只读快照。
// Bids 按价格降序，Asks 按价格升序，由数据源保证。
type Snapshot struct {
	MarketAddress string `json:"market_address"`
	// 该订单簿市场的结算计价 mint。call 与 put 的结算腿不同，
	// 不能用名义上的计价资产代替。
	QuoteMint string  `json:"quote_mint"`
	Bids      []Level `json:"bids"`
	Asks      []Level `json:"asks"`
	Timestamp int64   `json:"timestamp"`
}

// BestBid 最优买价档位，空盘返回 false
func (s *Snapshot) BestBid() (Level, bool) {
	if s == nil || len(s.Bids) == 0 {
		return Level{}, false
	}
	return s.Bids[0], true
}

// BestAsk 最优卖价档位，空盘返回 false
func (s *Snapshot) BestAsk() (Level, bool) {
	if s == nil || len(s.Asks) == 0 {
		return Level{}, false
	}
	return s.Asks[0], true
}

// SnapshotRepository 订单簿快照拉取协作方。
// 拿到的是尽力而为的当前快照，核心不做增量订阅。
type SnapshotRepository interface {
	Get(ctx context.Context, marketAddress string) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}
