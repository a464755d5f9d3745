package knapsack

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Item is a candidate with its weight already expressed in rescaled units.
type Item struct {
	ID     int
	Weight int
	Price  decimal.Decimal
}

// Combination is the best (price, weight) pair reachable for an item prefix
// under a capacity. The zero value is the empty combination.
type Combination struct {
	Price  decimal.Decimal
	Weight int
}

// IsEmpty reports whether c is the empty combination.
func (c Combination) IsEmpty() bool {
	return c.Equal(Combination{})
}

// Equal compares by value: prices numerically, weights exactly.
func (c Combination) Equal(other Combination) bool {
	return c.Weight == other.Weight && c.Price.Equal(other.Price)
}

// Better reports whether c should replace other: higher price wins, and on
// equal price the lower weight wins.
func (c Combination) Better(other Combination) bool {
	switch c.Price.Cmp(other.Price) {
	case 1:
		return true
	case 0:
		return c.Weight < other.Weight
	default:
		return false
	}
}

func (c Combination) add(item Item) Combination {
	return Combination{
		Price:  c.Price.Add(item.Price),
		Weight: c.Weight + item.Weight,
	}
}

func (c Combination) String() string {
	return fmt.Sprintf("[price:%s, weight:%d]", c.Price.StringFixed(2), c.Weight)
}

// IDSet is an unordered set of item ids.
type IDSet map[int]struct{}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
