package domain

import "context"

// MarketRepository 市场拉取协作方：返回最新已知的市场记录集合
type MarketRepository interface {
	List(ctx context.Context) ([]*OptionMarket, error)
}
