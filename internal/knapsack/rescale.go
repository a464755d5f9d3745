package knapsack

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	maxUnits = decimal.NewFromInt(int64(math.MaxInt))
	minUnits = decimal.NewFromInt(int64(math.MinInt))
)

// Rescaler maps decimal weights onto integer table columns using a fixed
// power-of-ten factor.
type Rescaler struct {
	decimals int32
}

// NewRescaler builds a Rescaler for weights carrying at most decimals digits
// after the point.
func NewRescaler(decimals int) (Rescaler, error) {
	if decimals < 0 {
		return Rescaler{}, fmt.Errorf("%w: got %d", ErrNegativeDecimals, decimals)
	}
	return Rescaler{decimals: int32(decimals)}, nil
}

// Decimals returns the configured precision.
func (r Rescaler) Decimals() int {
	return int(r.decimals)
}

// Rescale multiplies weight by the scale factor and truncates toward zero.
// Digits beyond the configured precision are dropped. Results outside the int
// range saturate at math.MaxInt or math.MinInt.
func (r Rescaler) Rescale(weight decimal.Decimal) int {
	units := weight.Shift(r.decimals).Truncate(0)
	switch {
	case units.GreaterThan(maxUnits):
		return math.MaxInt
	case units.LessThan(minUnits):
		return math.MinInt
	}
	return int(units.IntPart())
}

// Unscale converts rescaled units back to a decimal weight.
func (r Rescaler) Unscale(units int) decimal.Decimal {
	return decimal.New(int64(units), -r.decimals)
}
