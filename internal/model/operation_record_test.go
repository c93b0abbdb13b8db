package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"lpPool/internal/fixed"
)

func TestOperationRecordJSONRoundTrip(t *testing.T) {
	out := TokenAmount(8_991_000)
	feeTokens := TokenAmount(9_000)
	staked := StakedTokenAmount(6_000_000)
	fee, err := fixed.ParsePercentage("0.001")
	if err != nil {
		t.Fatalf("fee: %v", err)
	}

	original := OperationRecord{
		Pool:      "default",
		Seq:       2,
		Kind:      OpSwap,
		Owner:     "0x1111111111111111111111111111111111111111",
		Timestamp: 1700000000,
		Amount:    "6.000000",
		TokensOut: &out,
		StakedIn:  &staked,
		Fee:       &fee,
		FeeTokens: &feeTokens,
		Reserves: PoolReserves{
			Token:  TokenAmount(91_009_000),
			Staked: StakedTokenAmount(6_000_000),
			Lp:     LpTokenAmount(100_000_000),
		},
		ProcessedAt: "2024-01-01T00:00:00Z",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded OperationRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestAmountsEncodeAsPaddedStrings(t *testing.T) {
	payload := PoolReserves{
		Token:  TokenAmount(9_000),
		Staked: StakedTokenAmount(36_000_000),
		Lp:     LpTokenAmount(109_999_100),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := map[string]string{"token": "0.009000", "staked": "36.000000", "lp": "109.999100"}
	for key, text := range want {
		got, ok := decoded[key].(string)
		if !ok {
			t.Fatalf("%s should be string", key)
		}
		if got != text {
			t.Fatalf("%s mismatch: %s != %s", key, got, text)
		}
	}
}

func TestAmountStringIsUnpadded(t *testing.T) {
	if got := TokenAmount(9_000).String(); got != "0.9000" {
		t.Fatalf("string mismatch: %s", got)
	}
	if got := Price(1_500_000).String(); got != "1.500000" {
		t.Fatalf("string mismatch: %s", got)
	}
}

func TestAmountUnmarshalRejectsBadText(t *testing.T) {
	var amount TokenAmount
	if err := amount.UnmarshalText([]byte("100")); err == nil {
		t.Fatalf("expected error for missing delimiter")
	}
	var price Price
	if err := json.Unmarshal([]byte(`"1.5x"`), &price); err == nil {
		t.Fatalf("expected error for bad fractional part")
	}
}

func TestOperationKindValid(t *testing.T) {
	for _, k := range []OperationKind{OpAddLiquidity, OpSwap, OpRemoveLiquidity} {
		if !k.Valid() {
			t.Fatalf("%s should be valid", k)
		}
	}
	if OperationKind("mint").Valid() {
		t.Fatalf("mint should be invalid")
	}
}
