package journal

import (
	"fmt"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
	"lpPool/internal/pool"
)

// Apply runs op against p and describes the outcome. Pool errors end up in
// the record's Error field and leave p unchanged.
func Apply(p *pool.Pool, poolName string, op model.Operation) model.OperationRecord {
	rec := model.OperationRecord{
		Pool:      poolName,
		Seq:       op.Seq,
		Kind:      op.Kind,
		Owner:     op.Owner,
		Timestamp: op.Timestamp,
		Amount:    op.Amount,
	}

	raw, err := fixed.Parse(op.Amount)
	if err != nil {
		rec.Error = fmt.Sprintf("parse amount: %v", err)
		rec.Reserves = p.Reserves()
		return rec
	}
	rec.Amount = fixed.FormatPadded(raw)

	switch op.Kind {
	case model.OpAddLiquidity:
		err = applyDeposit(p, model.TokenAmount(raw), &rec)
	case model.OpSwap:
		err = applySwap(p, model.StakedTokenAmount(raw), &rec)
	case model.OpRemoveLiquidity:
		err = applyWithdraw(p, model.LpTokenAmount(raw), &rec)
	default:
		err = fmt.Errorf("unknown operation %q", op.Kind)
	}
	if err != nil {
		rec.Error = err.Error()
	}
	rec.Reserves = p.Reserves()
	return rec
}

func applyDeposit(p *pool.Pool, in model.TokenAmount, rec *model.OperationRecord) error {
	minted, err := p.AddLiquidity(in)
	if err != nil {
		return err
	}
	rec.TokensIn = &in
	rec.LpMinted = &minted
	return nil
}

func applySwap(p *pool.Pool, in model.StakedTokenAmount, rec *model.OperationRecord) error {
	q, err := p.Quote(in)
	if err != nil {
		return err
	}
	out, err := p.Swap(in)
	if err != nil {
		return err
	}
	rec.StakedIn = &in
	rec.TokensOut = &out
	rec.Fee = &q.Fee
	rec.FeeTokens = &q.FeeTokens
	return nil
}

func applyWithdraw(p *pool.Pool, burn model.LpTokenAmount, rec *model.OperationRecord) error {
	st, tok, err := p.RemoveLiquidity(burn)
	if err != nil {
		return err
	}
	rec.LpBurned = &burn
	rec.StakedOut = &st
	rec.TokensOut = &tok
	return nil
}
