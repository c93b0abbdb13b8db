package pool

import (
	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

// fee returns the swap fee for taking takenTokenAmount out of the base reserve.
// Above the liquidity target the fee is feeMin; at or below it the fee rises
// linearly to feeMax as the remaining reserve approaches zero.
func (p *Pool) fee(takenTokenAmount model.TokenAmount) (fixed.Percentage, error) {
	remaining, err := fixed.Sub(uint64(p.tokenAmount), uint64(takenTokenAmount))
	if err != nil {
		return fixed.Percentage{}, err
	}
	if remaining > uint64(p.liquidityTarget) {
		return p.feeMin, nil
	}

	delta := p.feeMax.Raw() - p.feeMin.Raw()
	discount, err := fixed.Proportional(delta, remaining, uint64(p.liquidityTarget))
	if err != nil {
		return fixed.Percentage{}, err
	}
	fee, err := fixed.Sub(p.feeMax.Raw(), discount)
	if err != nil {
		return fixed.Percentage{}, err
	}
	return fixed.NewPercentage(fee)
}
