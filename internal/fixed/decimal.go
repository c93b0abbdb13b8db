package fixed

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Scale is the number of raw units in one whole token.
	Scale uint64 = 1_000_000
	// Precision is the number of fractional digits Scale can represent.
	Precision = 6
)

// Parse converts decimal text such as "90." or "0.9991" into scaled units.
// Fractional digits past Precision are validated but truncated.
func Parse(text string) (uint64, error) {
	intText, fracText, ok := strings.Cut(text, ".")
	if !ok {
		return 0, ErrMissingDelimiter
	}

	intVal, err := strconv.ParseUint(intText, 10, 64)
	if err != nil {
		return 0, ErrIncorrectIntegerPart
	}
	if intVal > maxUint64/Scale {
		return 0, ErrIncorrectIntegerPart
	}

	var fracVal uint64
	weight := Scale
	for i, c := range []rune(fracText) {
		if c < '0' || c > '9' {
			return 0, &FractionalPartError{Position: i, Char: c}
		}
		weight /= 10
		fracVal += uint64(c-'0') * weight
	}

	value := intVal * Scale
	if value > maxUint64-fracVal {
		return 0, ErrIncorrectIntegerPart
	}
	return value + fracVal, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(text string) uint64 {
	v, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("fixed: parse %q: %v", text, err))
	}
	return v
}

// Format renders v as "<integer>.<remainder>". The remainder is not zero padded,
// so 0.009 prints as "0.9000"; use FormatPadded when the text must parse back.
func Format(v uint64) string {
	return fmt.Sprintf("%d.%d", v/Scale, v%Scale)
}

// FormatPadded renders v with exactly Precision fractional digits.
func FormatPadded(v uint64) string {
	return fmt.Sprintf("%d.%06d", v/Scale, v%Scale)
}
