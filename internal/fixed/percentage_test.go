package fixed

import (
	"errors"
	"testing"
)

func TestNewPercentage(t *testing.T) {
	for _, raw := range []uint64{0, MustParse("0.001"), MustParse("0.09"), MaxPercentage} {
		p, err := NewPercentage(raw)
		if err != nil {
			t.Fatalf("new percentage %d: %v", raw, err)
		}
		if p.Raw() != raw {
			t.Fatalf("raw mismatch: %d != %d", p.Raw(), raw)
		}
	}
}

// The bound is exactly 100%, including values up to 10000%.
func TestNewPercentageRejectsAboveHundred(t *testing.T) {
	for _, raw := range []uint64{MaxPercentage + 1, 100*MaxPercentage - 1, 100 * MaxPercentage} {
		_, err := NewPercentage(raw)
		var tooLarge *ValueTooLargeError
		if !errors.As(err, &tooLarge) {
			t.Fatalf("expected value too large for %d, got %v", raw, err)
		}
		if tooLarge.Val != raw || tooLarge.Max != MaxPercentage {
			t.Fatalf("error fields mismatch: %+v", tooLarge)
		}
	}
}

func TestPercentageOrder(t *testing.T) {
	low, _ := ParsePercentage("0.001")
	high, _ := ParsePercentage("0.09")
	if !low.Less(high) || high.Less(low) {
		t.Fatalf("order mismatch")
	}
	if low.Cmp(high) != -1 || high.Cmp(low) != 1 || low.Cmp(low) != 0 {
		t.Fatalf("cmp mismatch")
	}
}

func TestPercentageText(t *testing.T) {
	p, err := ParsePercentage("0.0455")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	text, err := p.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != "0.045500" {
		t.Fatalf("text mismatch: %s", text)
	}

	var decoded Percentage
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != p {
		t.Fatalf("decoded mismatch: %v != %v", decoded, p)
	}

	if err := decoded.UnmarshalText([]byte("100.000001")); err == nil {
		t.Fatalf("expected bound violation")
	}
}
