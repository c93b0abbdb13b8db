package report

import (
	"errors"
	"math"
	"testing"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

func TestAccumulatorOverflowIsAtomic(t *testing.T) {
	acc := NewAccumulator(model.OperationRecord{Pool: "main"}, 0, 60)
	acc.StakedIn = 1
	acc.TokensOut = math.MaxUint64

	err := acc.AddRecord(model.OperationRecord{
		Pool: "main", Seq: 1, Kind: model.OpSwap, Reserves: model.PoolReserves{Token: 9},
		StakedIn:  ptr(model.StakedTokenAmount(5)),
		TokensOut: ptr(model.TokenAmount(1)),
	})
	if !errors.Is(err, fixed.ErrCalculation) {
		t.Fatalf("expected calculation error, got %v", err)
	}
	if acc.StakedIn != 1 {
		t.Fatalf("staked in changed on failed add: %d", acc.StakedIn)
	}
	if acc.SwapCount != 0 || acc.LastSeq != 0 {
		t.Fatalf("rejected record counted: swaps=%d last_seq=%d", acc.SwapCount, acc.LastSeq)
	}
	if acc.Closing.Token != 0 {
		t.Fatalf("closing reserves changed on failed add: %+v", acc.Closing)
	}
}

func TestAccumulatorKeepsLatestReserves(t *testing.T) {
	acc := NewAccumulator(model.OperationRecord{Pool: "main"}, 0, 60)
	late := model.PoolReserves{Token: 7}
	early := model.PoolReserves{Token: 3}
	if err := acc.AddRecord(model.OperationRecord{Seq: 5, Kind: model.OpAddLiquidity, Reserves: late}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := acc.AddRecord(model.OperationRecord{Seq: 4, Kind: model.OpAddLiquidity, Reserves: early}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if acc.Closing != late || acc.LastSeq != 5 {
		t.Fatalf("closing mismatch: %+v seq %d", acc.Closing, acc.LastSeq)
	}
}

func TestComputeRate(t *testing.T) {
	if computeRate(0, 10) != nil || computeRate(10, 0) != nil {
		t.Fatalf("expected nil rate for zero inputs")
	}
	rate := computeRate(1, 4)
	if rate == nil || *rate != "0.250000000000000000" {
		t.Fatalf("rate mismatch: %v", rate)
	}
}
