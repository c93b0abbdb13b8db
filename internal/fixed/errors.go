package fixed

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDelimiter is returned when decimal text has no '.' separator.
	ErrMissingDelimiter = errors.New("missing delimiter")
	// ErrIncorrectIntegerPart is returned when the integer part is not a non-negative base-10 integer.
	ErrIncorrectIntegerPart = errors.New("incorrect integer part")
	// ErrCalculation covers overflow and underflow in any checked arithmetic step.
	ErrCalculation = errors.New("calculation error")
)

// FractionalPartError reports the first non-digit character of the fractional text.
type FractionalPartError struct {
	Position int
	Char     rune
}

func (e *FractionalPartError) Error() string {
	return fmt.Sprintf("incorrect fractional part: %q at position %d", e.Char, e.Position)
}

// ValueTooLargeError reports a quantity above its applicable bound.
type ValueTooLargeError struct {
	Val uint64
	Max uint64
}

func (e *ValueTooLargeError) Error() string {
	return fmt.Sprintf("value too large: %d > %d", e.Val, e.Max)
}
