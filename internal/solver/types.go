package solver

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item is a validated request item.
type Item struct {
	ID     int
	Weight decimal.Decimal
	Price  decimal.Decimal
}

// Request is a validated best-combination request. Item order is significant.
type Request struct {
	MaxWeight decimal.Decimal
	Items     []Item
}

// Result is the chosen subset together with derived totals.
type Result struct {
	IDs         []int
	TotalPrice  decimal.Decimal
	TotalWeight decimal.Decimal
	TableCells  int
	Cached      bool
}

// Solver describes the behaviour required from a best-combination solver.
type Solver interface {
	Solve(ctx context.Context, req Request) (Result, error)
}
