package pool

import (
	"errors"
	"fmt"

	"lpPool/internal/fixed"
)

// ErrExchangePriceIsZero is returned by New for a zero price.
var ErrExchangePriceIsZero = errors.New("exchange price is zero")

// FeeMaxLowerThanFeeMinError is returned by New when the fee bounds are inverted.
type FeeMaxLowerThanFeeMinError struct {
	Max fixed.Percentage
	Min fixed.Percentage
}

func (e *FeeMaxLowerThanFeeMinError) Error() string {
	return fmt.Sprintf("fee max %s lower than fee min %s", e.Max, e.Min)
}
