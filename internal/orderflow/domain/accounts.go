package domain

import "github.com/shopspring/decimal"

// TokenAccount 钱包持有的某个 mint 的代币账户
type TokenAccount struct {
	Address string
	Mint    string
	Amount  decimal.Decimal
}

// TokenAccountSource 代币账户查询协作方，按 mint 返回持仓，同步调用
type TokenAccountSource interface {
	AccountsByMint(mint string) []TokenAccount
}

// HighestAccount 选出余额最高的账户；空集合返回 false
func HighestAccount(accounts []TokenAccount) (TokenAccount, bool) {
	if len(accounts) == 0 {
		return TokenAccount{}, false
	}
	highest := accounts[0]
	for _, account := range accounts[1:] {
		if account.Amount.GreaterThan(highest.Amount) {
			highest = account
		}
	}
	return highest, true
}
