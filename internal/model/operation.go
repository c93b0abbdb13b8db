package model

// OperationKind names a pool mutation.
type OperationKind string

const (
	OpAddLiquidity    OperationKind = "add_liquidity"
	OpSwap            OperationKind = "swap"
	OpRemoveLiquidity OperationKind = "remove_liquidity"
)

// Valid reports whether k is a known operation.
func (k OperationKind) Valid() bool {
	switch k {
	case OpAddLiquidity, OpSwap, OpRemoveLiquidity:
		return true
	default:
		return false
	}
}

// Operation is one line of the operations input file. Amount is decimal text
// whose unit depends on Kind: base tokens, staked tokens or LP tokens.
type Operation struct {
	Seq       uint64        `json:"seq"`
	Kind      OperationKind `json:"op"`
	Amount    string        `json:"amount"`
	Owner     string        `json:"owner,omitempty"`
	Timestamp uint64        `json:"timestamp,omitempty"`
}
