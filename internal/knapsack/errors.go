package knapsack

import "errors"

var (
	// ErrNegativeDecimals is returned when the weight precision is negative.
	ErrNegativeDecimals = errors.New("weight decimals must be a non-negative integer")
	// ErrNegativeCapacity is returned when the table capacity is negative.
	ErrNegativeCapacity = errors.New("capacity must be a non-negative integer")
	// ErrNegativeWeight is returned when an item carries a negative rescaled weight.
	ErrNegativeWeight = errors.New("item weight must be a non-negative integer")
	// ErrTableTooLarge is returned when the combination table cannot be allocated.
	ErrTableTooLarge = errors.New("combination table exceeds the allocatable size")
	// ErrInconsistentInput is returned when the items passed to Reconstruct do not match the table.
	ErrInconsistentInput = errors.New("items do not match the combination table")
)
