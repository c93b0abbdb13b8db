package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

// Chainlink AggregatorV3Interface subset.
const priceFeedABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "latestRoundData", "outputs": [
    {"internalType": "uint80", "name": "roundId", "type": "uint80"},
    {"internalType": "int256", "name": "answer", "type": "int256"},
    {"internalType": "uint256", "name": "startedAt", "type": "uint256"},
    {"internalType": "uint256", "name": "updatedAt", "type": "uint256"},
    {"internalType": "uint80", "name": "answeredInRound", "type": "uint80"}
  ], "stateMutability": "view", "type": "function"}
]`

var (
	priceFeedABI    abi.ABI
	priceFeedOnce   sync.Once
	priceFeedABIErr error
)

// PriceFeedABI returns the parsed price feed ABI.
func PriceFeedABI() (abi.ABI, error) {
	priceFeedOnce.Do(func() {
		priceFeedABI, priceFeedABIErr = abi.JSON(strings.NewReader(priceFeedABIJSON))
	})
	return priceFeedABI, priceFeedABIErr
}

// FeedPrice is a price feed answer converted to the pool scale.
type FeedPrice struct {
	Price     model.Price
	Decimals  uint8
	RoundID   *big.Int
	UpdatedAt uint64
}

// FetchPrice reads the staked token exchange rate from a price feed contract.
// A nil blockNumber reads the latest state.
func FetchPrice(ctx context.Context, caller Caller, feed common.Address, blockNumber *big.Int) (FeedPrice, error) {
	if caller == nil {
		return FeedPrice{}, fmt.Errorf("chain client is nil")
	}
	feedABI, err := PriceFeedABI()
	if err != nil {
		return FeedPrice{}, err
	}

	decValues, err := call(ctx, caller, feedABI, feed, "decimals", blockNumber)
	if err != nil {
		return FeedPrice{}, err
	}
	decimals, ok := decValues[0].(uint8)
	if !ok {
		return FeedPrice{}, fmt.Errorf("decimals unexpected type %T", decValues[0])
	}

	round, err := call(ctx, caller, feedABI, feed, "latestRoundData", blockNumber)
	if err != nil {
		return FeedPrice{}, err
	}
	if len(round) != 5 {
		return FeedPrice{}, fmt.Errorf("latestRoundData return size %d", len(round))
	}
	roundID, ok := round[0].(*big.Int)
	if !ok {
		return FeedPrice{}, fmt.Errorf("roundId unexpected type %T", round[0])
	}
	answer, ok := round[1].(*big.Int)
	if !ok {
		return FeedPrice{}, fmt.Errorf("answer unexpected type %T", round[1])
	}
	updatedAt, ok := round[3].(*big.Int)
	if !ok {
		return FeedPrice{}, fmt.Errorf("updatedAt unexpected type %T", round[3])
	}

	price, err := ScalePrice(answer, decimals)
	if err != nil {
		return FeedPrice{}, err
	}
	return FeedPrice{
		Price:     price,
		Decimals:  decimals,
		RoundID:   roundID,
		UpdatedAt: updatedAt.Uint64(),
	}, nil
}

// ScalePrice converts a feed answer with the given decimals to a pool price.
func ScalePrice(answer *big.Int, decimals uint8) (model.Price, error) {
	if answer == nil || answer.Sign() <= 0 {
		return 0, fmt.Errorf("non-positive feed answer: %v", answer)
	}
	value, overflow := uint256.FromBig(answer)
	if overflow {
		return 0, fmt.Errorf("feed answer overflows uint256")
	}
	scaled, err := fixed.FromUnits(value, decimals)
	if err != nil {
		return 0, fmt.Errorf("scale feed answer: %w", err)
	}
	if scaled == 0 {
		return 0, fmt.Errorf("feed answer %s below pool precision", answer)
	}
	return model.Price(scaled), nil
}

func call(ctx context.Context, caller Caller, contract abi.ABI, to common.Address, method string, blockNumber *big.Int) ([]interface{}, error) {
	data, err := contract.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := caller.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := contract.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}
