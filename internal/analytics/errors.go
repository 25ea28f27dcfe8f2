package analytics

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfOrder = errors.New("values out of order")
	ErrOutOfRange = errors.New("value out of range")
)

// OrderingError reports dates or values passed in the wrong chronological or numeric order.
type OrderingError struct {
	Op     string
	Detail string
}

func (err *OrderingError) Error() string {
	return fmt.Sprintf("%s: %s", err.Op, err.Detail)
}

func (err *OrderingError) Is(target error) bool {
	return target == ErrOutOfOrder
}

// RangeError reports a value outside the bound an operation can reason about.
type RangeError struct {
	Op    string
	Value float64
	Min   float64
	Max   float64
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("%s: %g outside [%g, %g]", err.Op, err.Value, err.Min, err.Max)
}

func (err *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
