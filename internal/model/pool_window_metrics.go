package model

import "time"

// PoolWindowMetrics stores aggregated journal metrics for a pool window.
type PoolWindowMetrics struct {
	PoolName        string
	WindowSizeSecs  int64
	WindowStart     time.Time
	WindowEnd       time.Time
	SwapCount       uint64
	DepositCount    uint64
	WithdrawCount   uint64
	FailedCount     uint64
	StakedIn        StakedTokenAmount
	TokensIn        TokenAmount
	TokensOut       TokenAmount
	FeeTokens       TokenAmount
	LpMinted        LpTokenAmount
	LpBurned        LpTokenAmount
	ClosingReserves PoolReserves
	FeeYield        *string
	LastSeq         uint64
}
