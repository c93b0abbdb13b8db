package pool

import (
	"fmt"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

// Pool exchanges staked tokens for base tokens at a fixed price and tracks
// LP shares. A Pool is not safe for concurrent use.
//
// Every mutating method computes its results into locals and assigns the
// reserves only after all arithmetic succeeded, so a returned error always
// leaves the pool unchanged.
type Pool struct {
	price           model.Price
	liquidityTarget model.TokenAmount
	feeMin          fixed.Percentage
	feeMax          fixed.Percentage

	tokenAmount   model.TokenAmount
	stTokenAmount model.StakedTokenAmount
	lpTokenAmount model.LpTokenAmount
}

// SwapQuote is the breakdown of a swap against the current reserves.
type SwapQuote struct {
	Gross     model.TokenAmount
	Fee       fixed.Percentage
	FeeTokens model.TokenAmount
	Net       model.TokenAmount
}

// New creates an empty pool.
func New(price model.Price, feeMin, feeMax fixed.Percentage, liquidityTarget model.TokenAmount) (*Pool, error) {
	if feeMax.Less(feeMin) {
		return nil, &FeeMaxLowerThanFeeMinError{Max: feeMax, Min: feeMin}
	}
	if price == 0 {
		return nil, ErrExchangePriceIsZero
	}
	return &Pool{
		price:           price,
		liquidityTarget: liquidityTarget,
		feeMin:          feeMin,
		feeMax:          feeMax,
	}, nil
}

// Restore rebuilds a pool from a snapshot, enforcing the same invariants as New.
func Restore(s model.PoolSnapshot) (*Pool, error) {
	p, err := New(s.Price, s.FeeMin, s.FeeMax, s.LiquidityTarget)
	if err != nil {
		return nil, err
	}
	p.tokenAmount = s.Reserves.Token
	p.stTokenAmount = s.Reserves.Staked
	p.lpTokenAmount = s.Reserves.Lp
	if _, err := p.currentLiquidity(); err != nil {
		return nil, fmt.Errorf("restore pool: %w", err)
	}
	return p, nil
}

// Snapshot returns the pool state.
func (p *Pool) Snapshot() model.PoolSnapshot {
	return model.PoolSnapshot{
		Price:           p.price,
		FeeMin:          p.feeMin,
		FeeMax:          p.feeMax,
		LiquidityTarget: p.liquidityTarget,
		Reserves:        p.Reserves(),
	}
}

// Reserves returns the current balances.
func (p *Pool) Reserves() model.PoolReserves {
	return model.PoolReserves{
		Token:  p.tokenAmount,
		Staked: p.stTokenAmount,
		Lp:     p.lpTokenAmount,
	}
}

// AddLiquidity deposits base tokens and mints LP tokens proportional to the
// share of pool value added. An empty pool mints 1:1.
func (p *Pool) AddLiquidity(tokenAmount model.TokenAmount) (model.LpTokenAmount, error) {
	liquidity, err := p.currentLiquidity()
	if err != nil {
		return 0, err
	}

	minted := model.LpTokenAmount(tokenAmount)
	if liquidity != 0 {
		v, err := fixed.Proportional(uint64(p.lpTokenAmount), uint64(tokenAmount), uint64(liquidity))
		if err != nil {
			return 0, err
		}
		minted = model.LpTokenAmount(v)
	}

	newToken, err := fixed.Add(uint64(p.tokenAmount), uint64(tokenAmount))
	if err != nil {
		return 0, err
	}
	newLp, err := fixed.Add(uint64(p.lpTokenAmount), uint64(minted))
	if err != nil {
		return 0, err
	}

	p.tokenAmount = model.TokenAmount(newToken)
	p.lpTokenAmount = model.LpTokenAmount(newLp)
	return minted, nil
}

// Quote prices a swap of stTokenAmount without changing the pool.
func (p *Pool) Quote(stTokenAmount model.StakedTokenAmount) (SwapQuote, error) {
	gross, err := fixed.Multiply(uint64(stTokenAmount), uint64(p.price))
	if err != nil {
		return SwapQuote{}, err
	}
	fee, err := p.fee(model.TokenAmount(gross))
	if err != nil {
		return SwapQuote{}, err
	}
	feeTokens, err := fixed.Multiply(fee.Raw(), gross)
	if err != nil {
		return SwapQuote{}, err
	}
	net, err := fixed.Sub(gross, feeTokens)
	if err != nil {
		return SwapQuote{}, err
	}
	// the base reserve must cover the payout
	if net > uint64(p.tokenAmount) {
		return SwapQuote{}, fixed.ErrCalculation
	}
	return SwapQuote{
		Gross:     model.TokenAmount(gross),
		Fee:       fee,
		FeeTokens: model.TokenAmount(feeTokens),
		Net:       model.TokenAmount(net),
	}, nil
}

// Swap takes stTokenAmount staked tokens into the pool and pays out their
// base token value at the pool price, minus the liquidity fee.
func (p *Pool) Swap(stTokenAmount model.StakedTokenAmount) (model.TokenAmount, error) {
	q, err := p.Quote(stTokenAmount)
	if err != nil {
		return 0, err
	}

	newToken, err := fixed.Sub(uint64(p.tokenAmount), uint64(q.Net))
	if err != nil {
		return 0, err
	}
	newSt, err := fixed.Add(uint64(p.stTokenAmount), uint64(stTokenAmount))
	if err != nil {
		return 0, err
	}

	p.tokenAmount = model.TokenAmount(newToken)
	p.stTokenAmount = model.StakedTokenAmount(newSt)
	return q.Net, nil
}

// RemoveLiquidity burns lpTokenAmount shares and returns the owed staked and
// base tokens.
func (p *Pool) RemoveLiquidity(lpTokenAmount model.LpTokenAmount) (model.StakedTokenAmount, model.TokenAmount, error) {
	if lpTokenAmount > p.lpTokenAmount {
		return 0, 0, &fixed.ValueTooLargeError{Val: uint64(lpTokenAmount), Max: uint64(p.lpTokenAmount)}
	}

	owedSt, err := fixed.Proportional(uint64(p.stTokenAmount), uint64(lpTokenAmount), uint64(p.lpTokenAmount))
	if err != nil {
		return 0, 0, err
	}
	owedToken, err := fixed.Proportional(uint64(p.tokenAmount), uint64(lpTokenAmount), uint64(p.lpTokenAmount))
	if err != nil {
		return 0, 0, err
	}

	newToken, err := fixed.Sub(uint64(p.tokenAmount), owedToken)
	if err != nil {
		return 0, 0, err
	}
	newSt, err := fixed.Sub(uint64(p.stTokenAmount), owedSt)
	if err != nil {
		return 0, 0, err
	}
	newLp, err := fixed.Sub(uint64(p.lpTokenAmount), uint64(lpTokenAmount))
	if err != nil {
		return 0, 0, err
	}

	p.tokenAmount = model.TokenAmount(newToken)
	p.stTokenAmount = model.StakedTokenAmount(newSt)
	p.lpTokenAmount = model.LpTokenAmount(newLp)
	return model.StakedTokenAmount(owedSt), model.TokenAmount(owedToken), nil
}

// currentLiquidity is the pool value in base tokens.
func (p *Pool) currentLiquidity() (model.TokenAmount, error) {
	stValue, err := fixed.Multiply(uint64(p.stTokenAmount), uint64(p.price))
	if err != nil {
		return 0, err
	}
	v, err := fixed.Add(uint64(p.tokenAmount), stValue)
	if err != nil {
		return 0, err
	}
	return model.TokenAmount(v), nil
}
