package domain

import "github.com/shopspring/decimal"

// ContractsToMint 卖出时需要新铸的合约数 = 请求数量 − 已持有的期权头寸。
// 可以为负，表示净减少已写头寸，编排层必须支持而非拒绝。
func ContractsToMint(orderSize, heldOptionPosition decimal.Decimal) decimal.Decimal {
	return orderSize.Sub(heldOptionPosition)
}

// CollateralRequired 卖出所需追加的抵押标的数量：
// max(amountPerContract × orderSize − 已锁定标的, 0)，
// 其中已锁定标的 = 持有头寸 × amountPerContract。
// 仅用于展示与校验，链上结算层才是强制方。
func CollateralRequired(amountPerContract, orderSize, heldOptionPosition decimal.Decimal) decimal.Decimal {
	locked := heldOptionPosition.Mul(amountPerContract)
	required := amountPerContract.Mul(orderSize).Sub(locked)
	if required.IsNegative() {
		return decimal.Zero
	}
	return required
}
