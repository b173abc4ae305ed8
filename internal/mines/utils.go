package mines

// neighbours returns the indices of the cells around i in row-major order.
func (f *MineField) neighbours(i int) []int {
	row, col := i/f.width, i%f.width
	out := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if f.InBounds(row+dr, col+dc) {
				out = append(out, (row+dr)*f.width+(col+dc))
			}
		}
	}
	return out
}

func (f *MineField) adjacentMines(i int) (n int) {
	for _, j := range f.neighbours(i) {
		if f.mines[j] {
			n++
		}
	}
	return
}

// Neighbours returns the in-bounds cells at Chebyshev distance 1 from
// row:col, top-left to bottom-right.
func (f *MineField) Neighbours(row, col int) ([]Cell, error) {
	i, err := f.index(row, col)
	if err != nil {
		return nil, err
	}
	idx := f.neighbours(i)
	cells := make([]Cell, len(idx))
	for k, j := range idx {
		cells[k] = f.cell(j)
	}
	return cells, nil
}

// AdjacentMines counts the mines around row:col.
func (f *MineField) AdjacentMines(row, col int) (int, error) {
	i, err := f.index(row, col)
	if err != nil {
		return 0, err
	}
	return f.adjacentMines(i), nil
}
