package knapsack

import "fmt"

// Reconstruct walks table backwards from the bottom-right cell and returns the
// ids of the items making up the optimum. items must be the slice the table
// was built from, in the same order.
func Reconstruct(table *Table, items []Item) (IDSet, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInconsistentInput)
	}
	if len(items) != table.Rows()-1 {
		return nil, fmt.Errorf("%w: table has %d item rows, got %d items",
			ErrInconsistentInput, table.Rows()-1, len(items))
	}

	chosen := make(IDSet)
	if table.Last().IsEmpty() {
		return chosen, nil
	}

	row, col := table.Rows()-1, table.Cols()-1
	for row > 0 && col > 0 {
		// A cell that differs from the one above it was improved by this row's item.
		if !table.At(row, col).Equal(table.At(row-1, col)) {
			item := items[row-1]
			if item.Weight > col {
				return nil, fmt.Errorf("%w: item %d (weight %d) cannot occupy column %d",
					ErrInconsistentInput, item.ID, item.Weight, col)
			}
			if chosen.Contains(item.ID) {
				return nil, fmt.Errorf("%w: item id %d selected twice", ErrInconsistentInput, item.ID)
			}
			chosen[item.ID] = struct{}{}
			col -= item.Weight
		}
		row--
	}

	return chosen, nil
}
