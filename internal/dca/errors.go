package dca

import (
	"errors"
	"fmt"
)

// MinPoints is the smallest series the simulator accepts.
const MinPoints = 12

// ErrInsufficientData is matched by every *InsufficientDataError.
var ErrInsufficientData = errors.New("not enough monthly data")

// InsufficientDataError reports a series shorter than MinPoints.
type InsufficientDataError struct {
	Got int
	Min int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough monthly data: got %d points, need at least %d", e.Got, e.Min)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// InvalidPriceError reports a non-positive or non-finite price.
type InvalidPriceError struct {
	Index int
	Asset string
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price for %s at point %d: %f", e.Asset, e.Index, e.Price)
}

// NonMonotonicError reports a point whose month does not follow the previous one.
type NonMonotonicError struct {
	Index int
}

func (e *NonMonotonicError) Error() string {
	return fmt.Sprintf("point %d is not after point %d", e.Index, e.Index-1)
}
