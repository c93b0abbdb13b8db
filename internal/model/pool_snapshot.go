package model

import "lpPool/internal/fixed"

// PoolSnapshot is the full persisted state of a pool.
type PoolSnapshot struct {
	Price           Price            `json:"price"`
	FeeMin          fixed.Percentage `json:"fee_min"`
	FeeMax          fixed.Percentage `json:"fee_max"`
	LiquidityTarget TokenAmount      `json:"liquidity_target"`
	Reserves        PoolReserves     `json:"reserves"`
}
