package domain

// Registry 以规范键索引的市场快照，整体构建、整体替换，构建后只读
type Registry map[MarketKey]*OptionMarket

// NormalizeMarkets 把原始市场集合归一化为 O(1) 查找的注册表。
// 重复键后写覆盖：注册表反映最新已知状态，不视为错误。
func NormalizeMarkets(markets []*OptionMarket) (Registry, error) {
	registry := make(Registry, len(markets))
	for _, m := range markets {
		if m == nil {
			continue
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		registry[m.Key()] = m
	}
	return registry, nil
}

// Lookup 按规范键查找
func (r Registry) Lookup(key MarketKey) (*OptionMarket, bool) {
	m, ok := r[key]
	return m, ok
}
