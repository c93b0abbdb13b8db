package report

import (
	"fmt"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

// Accumulator holds aggregate values for a pool window. Amounts are raw
// fixed.Scale units.
type Accumulator struct {
	PoolName      string
	WindowStart   uint64
	WindowEnd     uint64
	SwapCount     uint64
	DepositCount  uint64
	WithdrawCount uint64
	FailedCount   uint64
	StakedIn      uint64
	TokensIn      uint64
	TokensOut     uint64
	FeeTokens     uint64
	LpMinted      uint64
	LpBurned      uint64
	Closing       model.PoolReserves
	LastSeq       uint64
}

func NewAccumulator(record model.OperationRecord, windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		PoolName:    record.Pool,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}
}

// AddRecord folds record into the window. A record whose sums overflow is
// rejected and leaves the accumulator unchanged.
func (a *Accumulator) AddRecord(record model.OperationRecord) error {
	var (
		counter *uint64
		err     error
	)
	switch {
	case record.Failed():
		counter = &a.FailedCount
	case record.Kind == model.OpAddLiquidity:
		counter = &a.DepositCount
		err = addAll(
			sum{&a.TokensIn, optional(record.TokensIn)},
			sum{&a.LpMinted, optional(record.LpMinted)},
		)
	case record.Kind == model.OpSwap:
		counter = &a.SwapCount
		err = addAll(
			sum{&a.StakedIn, optional(record.StakedIn)},
			sum{&a.TokensOut, optional(record.TokensOut)},
			sum{&a.FeeTokens, optional(record.FeeTokens)},
		)
	case record.Kind == model.OpRemoveLiquidity:
		counter = &a.WithdrawCount
		err = addAll(
			sum{&a.TokensOut, optional(record.TokensOut)},
			sum{&a.LpBurned, optional(record.LpBurned)},
		)
	default:
		return fmt.Errorf("unknown operation %q", record.Kind)
	}
	if err != nil {
		return fmt.Errorf("seq %d: %w", record.Seq, err)
	}

	*counter++
	if record.Seq >= a.LastSeq {
		a.LastSeq = record.Seq
		a.Closing = record.Reserves
	}
	return nil
}

// Metrics converts the accumulator into a metrics row.
func (a *Accumulator) Metrics(windowSeconds uint64) model.PoolWindowMetrics {
	return model.PoolWindowMetrics{
		PoolName:        a.PoolName,
		WindowSizeSecs:  int64(windowSeconds),
		WindowStart:     unixTime(a.WindowStart),
		WindowEnd:       unixTime(a.WindowEnd),
		SwapCount:       a.SwapCount,
		DepositCount:    a.DepositCount,
		WithdrawCount:   a.WithdrawCount,
		FailedCount:     a.FailedCount,
		StakedIn:        model.StakedTokenAmount(a.StakedIn),
		TokensIn:        model.TokenAmount(a.TokensIn),
		TokensOut:       model.TokenAmount(a.TokensOut),
		FeeTokens:       model.TokenAmount(a.FeeTokens),
		LpMinted:        model.LpTokenAmount(a.LpMinted),
		LpBurned:        model.LpTokenAmount(a.LpBurned),
		ClosingReserves: a.Closing,
		FeeYield:        computeRate(a.FeeTokens, uint64(a.Closing.Token)),
		LastSeq:         a.LastSeq,
	}
}

type sum struct {
	target *uint64
	value  uint64
}

func addAll(sums ...sum) error {
	next := make([]uint64, len(sums))
	for i, s := range sums {
		v, err := fixed.Add(*s.target, s.value)
		if err != nil {
			return err
		}
		next[i] = v
	}
	for i, s := range sums {
		*s.target = next[i]
	}
	return nil
}

func optional[T ~uint64](v *T) uint64 {
	if v == nil {
		return 0
	}
	return uint64(*v)
}
