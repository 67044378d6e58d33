package engine

import (
	"math/big"
)

// RequiredBuyback 计算单个投资人的应得回购：本金 + 本金*收益率/100。
// 乘法在大整数上做，避免大本金溢出；除法向零截断；
// 负收益率把结果压到负数时按 0 处理，不产生负向转账。
func RequiredBuyback(principal, yieldPercentage int64) (int64, error) {
	p := big.NewInt(principal)
	yield := new(big.Int).Mul(p, big.NewInt(yieldPercentage))
	yield.Quo(yield, big.NewInt(100))

	total := new(big.Int).Add(p, yield)
	if total.Sign() < 0 {
		return 0, nil
	}
	if !total.IsInt64() {
		return 0, ErrArithmeticOverflow
	}
	return total.Int64(), nil
}
