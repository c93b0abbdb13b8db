package chain

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"lpPool/internal/fixed"
	"lpPool/internal/model"
)

type stubCaller struct {
	responses map[string][]byte
	calls     int
}

func (s *stubCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	s.calls++
	for method, resp := range s.responses {
		feedABI, _ := PriceFeedABI()
		if bytes.Equal(msg.Data[:4], feedABI.Methods[method].ID) {
			return resp, nil
		}
	}
	return nil, fmt.Errorf("unexpected call data %x", msg.Data)
}

func newStubCaller(t *testing.T, decimals uint8, answer *big.Int) *stubCaller {
	t.Helper()
	feedABI, err := PriceFeedABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	dec, err := feedABI.Methods["decimals"].Outputs.Pack(decimals)
	if err != nil {
		t.Fatalf("pack decimals: %v", err)
	}
	round, err := feedABI.Methods["latestRoundData"].Outputs.Pack(
		big.NewInt(7),
		answer,
		big.NewInt(1699999000),
		big.NewInt(1700000000),
		big.NewInt(7),
	)
	if err != nil {
		t.Fatalf("pack round: %v", err)
	}
	return &stubCaller{responses: map[string][]byte{"decimals": dec, "latestRoundData": round}}
}

func TestFetchPrice(t *testing.T) {
	caller := newStubCaller(t, 8, big.NewInt(150_000_000))
	feed := common.HexToAddress("0x1111111111111111111111111111111111111111")

	got, err := FetchPrice(context.Background(), caller, feed, nil)
	if err != nil {
		t.Fatalf("fetch price: %v", err)
	}
	if got.Price != model.Price(fixed.MustParse("1.5")) {
		t.Fatalf("price mismatch: %s", got.Price)
	}
	if got.Decimals != 8 || got.RoundID.Int64() != 7 || got.UpdatedAt != 1700000000 {
		t.Fatalf("feed fields mismatch: %+v", got)
	}
	if caller.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", caller.calls)
	}
}

func TestFetchPriceRejectsNegativeAnswer(t *testing.T) {
	caller := newStubCaller(t, 8, big.NewInt(-1))
	feed := common.HexToAddress("0x1111111111111111111111111111111111111111")
	if _, err := FetchPrice(context.Background(), caller, feed, nil); err == nil {
		t.Fatalf("expected error for negative answer")
	}
}

func TestScalePrice(t *testing.T) {
	wei, _ := new(big.Int).SetString("1087000000000000000", 10)
	got, err := ScalePrice(wei, 18)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	if got != model.Price(fixed.MustParse("1.087")) {
		t.Fatalf("scaled mismatch: %s", got)
	}

	if _, err := ScalePrice(big.NewInt(1), 18); err == nil {
		t.Fatalf("expected error for sub-precision answer")
	}
	if _, err := ScalePrice(big.NewInt(0), 8); err == nil {
		t.Fatalf("expected error for zero answer")
	}
	maxAnswer := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	if _, err := ScalePrice(maxAnswer, 200); err == nil {
		t.Fatalf("expected error when decimals exceed uint256 digits")
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 300)
	if _, err := ScalePrice(huge, 0); err == nil {
		t.Fatalf("expected error for oversized answer")
	}
}
