package fixed

import (
	"math"

	"github.com/holiman/uint256"
)

const maxUint64 = math.MaxUint64

var scale256 = uint256.NewInt(Scale)

// Multiply returns floor(a*b / Scale). The product is computed in 256 bits.
func Multiply(a, b uint64) (uint64, error) {
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	return narrow(prod.Div(prod, scale256))
}

// Proportional returns floor(amount*numerator / denominator).
// A zero denominator returns amount unchanged.
func Proportional(amount, numerator, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return amount, nil
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(numerator))
	return narrow(prod.Div(prod, uint256.NewInt(denominator)))
}

// Add returns a+b or ErrCalculation on overflow.
func Add(a, b uint64) (uint64, error) {
	if a > maxUint64-b {
		return 0, ErrCalculation
	}
	return a + b, nil
}

// Sub returns a-b or ErrCalculation on underflow.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrCalculation
	}
	return a - b, nil
}

// maxUint256Digits is the number of decimal digits of the largest uint256.
const maxUint256Digits = 78

// FromUnits rescales an integer carrying the given number of decimals to
// Scale, truncating extra precision.
func FromUnits(value *uint256.Int, decimals uint8) (uint64, error) {
	if value == nil {
		return 0, ErrCalculation
	}
	out := new(uint256.Int).Set(value)
	switch {
	case decimals > Precision && decimals-Precision >= maxUint256Digits:
		// every uint256 is below 10^78, and the power itself would wrap
		return 0, nil
	case decimals > Precision:
		div := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals-Precision)))
		out.Div(out, div)
	case decimals < Precision:
		mul := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(Precision-decimals)))
		if _, overflow := out.MulOverflow(out, mul); overflow {
			return 0, ErrCalculation
		}
	}
	return narrow(out)
}

func narrow(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrCalculation
	}
	return v.Uint64(), nil
}
