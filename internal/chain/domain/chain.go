// Package domain 期权链构建：把稀疏的市场注册表整理为按行权价排列的链
package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	market "github.com/wyfcoding/optionsdesk/internal/market/domain"
)

// OptionRow 链中一条腿：要么是已初始化市场的投影，要么是空占位
type OptionRow struct {
	Key         string               `json:"key"`
	Size        string               `json:"size"`
	Initialized bool                 `json:"initialized"`
	Market      *market.OptionMarket `json:"market,omitempty"`
}

// Row 某一到期日、某一合约规模下的一个行权价，配对 call 与 put 两条腿。
// put 市场以 quote 作为标的交易，其行权价分数是 call 约定的数学倒数。
type Row struct {
	Key    string          `json:"key"`
	Strike decimal.Decimal `json:"strike"`
	Size   string          `json:"size"`
	Call   OptionRow       `json:"call"`
	Put    OptionRow       `json:"put"`
}

// strikeFraction 行权价的精确分数身份 (amount/quoteAmount)，
// 以规范十进制字符串做结构相等，避免浮点比较
type strikeFraction struct {
	amount      string
	quoteAmount string
}

func callFraction(m *market.OptionMarket) strikeFraction {
	return strikeFraction{
		amount:      market.Canonical(m.AmountPerContract),
		quoteAmount: market.Canonical(m.QuoteAmountPerContract),
	}
}

// put 市场 base/quote 倒置存储，取倒数分数映射回 call 约定
func putReciprocalFraction(m *market.OptionMarket) strikeFraction {
	return strikeFraction{
		amount:      market.Canonical(m.QuoteAmountPerContract),
		quoteAmount: market.Canonical(m.AmountPerContract),
	}
}

// strike 分数对应的行权价 quoteAmount/amount
func (f strikeFraction) strike() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed strike fraction amount %q: %w", f.amount, err)
	}
	quoteAmount, err := decimal.NewFromString(f.quoteAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed strike fraction quote amount %q: %w", f.quoteAmount, err)
	}
	return quoteAmount.Div(amount), nil
}

// BuildChain 给定到期日、合约规模与资产符号对，产出按行权价升序的链。
// 任一输入缺失或注册表为空时返回空链，不报错。
func BuildChain(registry market.Registry, expiration int64, size decimal.Decimal, underlying, quote string) ([]Row, error) {
	if len(registry) == 0 || expiration == 0 || !size.IsPositive() || underlying == "" || quote == "" {
		return nil, nil
	}

	var calls, puts []*market.OptionMarket
	for key, m := range registry {
		if key.Expiration != expiration {
			continue
		}
		switch {
		case key.Underlying == underlying && key.Quote == quote:
			calls = append(calls, m)
		case key.Underlying == quote && key.Quote == underlying:
			puts = append(puts, m)
		}
	}

	// call 的 fraction 与 put 的倒数 fraction 之并集即出现在任一腿上的行权价集合
	seen := make(map[strikeFraction]struct{})
	var fractions []strikeFraction
	for _, c := range calls {
		f := callFraction(c)
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			fractions = append(fractions, f)
		}
	}
	for _, p := range puts {
		f := putReciprocalFraction(p)
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			fractions = append(fractions, f)
		}
	}

	sizeCanonical := market.Canonical(size)
	rows := make([]Row, 0, len(fractions))

	for _, fraction := range fractions {
		strike, err := fraction.strike()
		if err != nil {
			return nil, err
		}

		var matchingCalls, matchingPuts []*market.OptionMarket
		// call 与 put 腿的规模编码不同：call 用标的数量，put 用计价数量。
		// 先按行权价收齐两侧的规模，再过滤到请求的规模。
		sizes := make(map[string]struct{})
		for _, c := range calls {
			if callFraction(c) == fraction {
				sizes[market.Canonical(c.AmountPerContract)] = struct{}{}
				matchingCalls = append(matchingCalls, c)
			}
		}
		for _, p := range puts {
			if putReciprocalFraction(p) == fraction {
				sizes[market.Canonical(p.QuoteAmountPerContract)] = struct{}{}
				matchingPuts = append(matchingPuts, p)
			}
		}

		if _, ok := sizes[sizeCanonical]; !ok {
			continue
		}

		row := Row{
			Key:    fmt.Sprintf("%d-%s-%s-%s-%s", expiration, underlying, quote, sizeCanonical, strike.String()),
			Strike: strike,
			Size:   sizeCanonical,
			Call:   OptionRow{Size: sizeCanonical},
			Put:    OptionRow{Size: sizeCanonical},
		}
		for _, c := range matchingCalls {
			if market.Canonical(c.AmountPerContract) == sizeCanonical {
				row.Call = OptionRow{
					Key:         c.Key().String(),
					Size:        sizeCanonical,
					Initialized: true,
					Market:      c,
				}
				break
			}
		}
		for _, p := range matchingPuts {
			if market.Canonical(p.QuoteAmountPerContract) == sizeCanonical {
				row.Put = OptionRow{
					Key:         p.Key().String(),
					Size:        sizeCanonical,
					Initialized: true,
					Market:      p,
				}
				break
			}
		}
		rows = append(rows, row)
	}

	// 精确十进制比较排序，高精度下不会因浮点相减而乱序
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Strike.LessThan(rows[j].Strike)
	})
	return rows, nil
}
