package knapsack

import (
	"fmt"
	"math"
)

// MaxTableCells bounds the number of cells a single table may hold.
const MaxTableCells = 1 << 24

// Table is the dynamic-programming grid. Row r holds the best combinations
// using the first r items; column c is the capacity in rescaled units.
// Cells live in one flat buffer indexed by row*width+col.
type Table struct {
	rows  int
	width int
	cells []Combination
}

func newTable(rows, cols int) (*Table, error) {
	cells, err := TableCells(rows-1, cols-1)
	if err != nil {
		return nil, err
	}
	return &Table{
		rows:  rows,
		width: cols,
		cells: make([]Combination, cells),
	}, nil
}

// TableCells returns the cell count of a table for numItems items and the
// given capacity, or ErrTableTooLarge when it cannot be allocated.
func TableCells(numItems, capacity int) (int, error) {
	rows, cols := numItems+1, capacity+1
	if rows <= 0 || cols <= 0 || rows > math.MaxInt/cols {
		return 0, fmt.Errorf("%w: %d items x capacity %d", ErrTableTooLarge, numItems, capacity)
	}
	if cells := rows * cols; cells <= MaxTableCells {
		return cells, nil
	}
	return 0, fmt.Errorf("%w: %d items x capacity %d needs %d cells, limit %d",
		ErrTableTooLarge, numItems, capacity, rows*cols, MaxTableCells)
}

// Rows returns the number of rows, one more than the number of items.
func (t *Table) Rows() int {
	return t.rows
}

// Cols returns the number of columns, one more than the capacity.
func (t *Table) Cols() int {
	return t.width
}

// Cells returns the total number of cells.
func (t *Table) Cells() int {
	return len(t.cells)
}

// At returns the combination stored at row, col.
func (t *Table) At(row, col int) Combination {
	return t.cells[row*t.width+col]
}

// Last returns the bottom-right cell: the optimum over all items at full capacity.
func (t *Table) Last() Combination {
	return t.cells[len(t.cells)-1]
}

func (t *Table) set(row, col int, c Combination) {
	t.cells[row*t.width+col] = c
}

// Build fills the combination table for items under capacity. Row 0 and
// column 0 stay empty. Every other cell keeps the previous row's combination
// unless adding the row's item yields a higher price, or the same price at a
// lower weight.
func Build(items []Item, capacity int) (*Table, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeCapacity, capacity)
	}
	for _, item := range items {
		if item.Weight < 0 {
			return nil, fmt.Errorf("%w: item %d has weight %d", ErrNegativeWeight, item.ID, item.Weight)
		}
	}

	table, err := newTable(len(items)+1, capacity+1)
	if err != nil {
		return nil, err
	}

	for row := 1; row < table.rows; row++ {
		item := items[row-1]
		for col := 1; col < table.width; col++ {
			prev := table.At(row-1, col)
			if item.Weight > col {
				table.set(row, col, prev)
				continue
			}

			withItem := table.At(row-1, col-item.Weight).add(item)
			if withItem.Better(prev) {
				table.set(row, col, withItem)
			} else {
				table.set(row, col, prev)
			}
		}
	}

	return table, nil
}
