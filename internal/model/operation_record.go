package model

import "lpPool/internal/fixed"

// PoolReserves are the mutable pool balances.
type PoolReserves struct {
	Token  TokenAmount       `json:"token"`
	Staked StakedTokenAmount `json:"staked"`
	Lp     LpTokenAmount     `json:"lp"`
}

// OperationRecord is the journal entry written for every processed operation.
// Failed operations carry Error and the unchanged reserves.
type OperationRecord struct {
	Pool        string             `json:"pool"`
	Seq         uint64             `json:"seq"`
	Kind        OperationKind      `json:"op"`
	Owner       string             `json:"owner,omitempty"`
	Timestamp   uint64             `json:"timestamp"`
	Amount      string             `json:"amount"`
	LpMinted    *LpTokenAmount     `json:"lp_minted,omitempty"`
	LpBurned    *LpTokenAmount     `json:"lp_burned,omitempty"`
	TokensIn    *TokenAmount       `json:"tokens_in,omitempty"`
	TokensOut   *TokenAmount       `json:"tokens_out,omitempty"`
	StakedIn    *StakedTokenAmount `json:"staked_in,omitempty"`
	StakedOut   *StakedTokenAmount `json:"staked_out,omitempty"`
	Fee         *fixed.Percentage  `json:"fee,omitempty"`
	FeeTokens   *TokenAmount       `json:"fee_tokens,omitempty"`
	Reserves    PoolReserves       `json:"reserves"`
	Error       string             `json:"error,omitempty"`
	ProcessedAt string             `json:"processed_at"`
}

// Failed reports whether the operation was rejected by the pool.
func (r OperationRecord) Failed() bool {
	return r.Error != ""
}
