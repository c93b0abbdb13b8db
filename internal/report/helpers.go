package report

import (
	"math/big"
	"time"
)

const ratioScale = 18

// computeRate returns fee/base as an 18 digit decimal, or nil when either is zero.
func computeRate(fee, base uint64) *string {
	if fee == 0 || base == 0 {
		return nil
	}
	rat := new(big.Rat).SetFrac(new(big.Int).SetUint64(fee), new(big.Int).SetUint64(base))
	val := rat.FloatString(ratioScale)
	return &val
}

func unixTime(ts uint64) time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

func windowStart(ts uint64, windowSec uint64) uint64 {
	return ts - (ts % windowSec)
}

func minOpenWindowStart(acc map[string]*Accumulator) uint64 {
	var min uint64
	for _, entry := range acc {
		if entry == nil {
			continue
		}
		if min == 0 || entry.WindowStart < min {
			min = entry.WindowStart
		}
	}
	return min
}
