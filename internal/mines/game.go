package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Outcome int8

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// MineField holds one round: the hidden mine layout and the player's view
// of it. It is not safe for concurrent use.
type MineField struct {
	height, width int
	mineCount     int
	mines         []bool /* real mine points */
	grid          Grid   /* player knowledge */
	outcome       Outcome

	flagged int // cells in Flagged state
	covered int // cells in Hidden or Flagged state
}

// RevealResult describes what a Reveal or Chord did to the field.
type RevealResult struct {
	Opened   int  // cells that left the Hidden state
	Exploded bool // a mine was revealed
	Won      bool // the move completed the round
}

func (r RevealResult) merge(other RevealResult) RevealResult {
	return RevealResult{
		Opened:   r.Opened + other.Opened,
		Exploded: r.Exploded || other.Exploded,
		Won:      r.Won || other.Won,
	}
}

// MaxDimension bounds the height and width of a field.
const MaxDimension = 100

func validateParams(height, width, mineCount int) error {
	if height <= 0 || width <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive",
			ErrInvalidConfiguration, height, width)
	}
	if height > MaxDimension || width > MaxDimension {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d",
			ErrInvalidConfiguration, height, width, MaxDimension)
	}
	if mineCount < 0 || mineCount > height*width {
		return fmt.Errorf("%w: %d mines do not fit in %d cells",
			ErrInvalidConfiguration, mineCount, height*width)
	}
	return nil
}

func newField(height, width int) *MineField {
	grid := make(Grid, height*width)
	for i := range grid {
		grid[i] = CellState{Kind: Hidden}
	}
	return &MineField{
		height:  height,
		width:   width,
		mines:   make([]bool, height*width),
		grid:    grid,
		covered: height * width,
	}
}

// New creates a field with mineCount mines placed uniformly at random using
// r. A nil r is replaced by a freshly seeded source.
func New(height, width, mineCount int, r *rand.Rand) (*MineField, error) {
	if err := validateParams(height, width, mineCount); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}
	f := newField(height, width)
	f.mineCount = mineCount
	placeMines(f.mines, mineCount, r)

	Log.WithFields(logrus.Fields{
		"height": height,
		"width":  width,
		"mines":  mineCount,
	}).Debug("mine field created")

	return f, nil
}

// NewWithMines creates a field with mines at exactly the given cells.
func NewWithMines(height, width int, mines []Cell) (*MineField, error) {
	if err := validateParams(height, width, len(mines)); err != nil {
		return nil, err
	}
	f := newField(height, width)
	for _, c := range mines {
		i, err := f.index(c.Row, c.Col)
		if err != nil {
			return nil, fmt.Errorf("%w: mine at %s: %w", ErrInvalidConfiguration, c, err)
		}
		if f.mines[i] {
			return nil, fmt.Errorf("%w: duplicate mine at %s", ErrInvalidConfiguration, c)
		}
		f.mines[i] = true
	}
	f.mineCount = len(mines)
	return f, nil
}

func (f *MineField) Height() int      { return f.height }
func (f *MineField) Width() int       { return f.width }
func (f *MineField) MineCount() int   { return f.mineCount }
func (f *MineField) FlagCount() int   { return f.flagged }
func (f *MineField) Outcome() Outcome { return f.outcome }

func (f *MineField) Over() bool {
	return f.outcome != InProgress
}

// RemainingMines is the mine count minus the placed flags, clamped at zero.
func (f *MineField) RemainingMines() int {
	return max(0, f.mineCount-f.flagged)
}

func (f *MineField) InBounds(row, col int) bool {
	return 0 <= row && row < f.height && 0 <= col && col < f.width
}

func (f *MineField) index(row, col int) (int, error) {
	if !f.InBounds(row, col) {
		return 0, fmt.Errorf("%w: %d:%d on a %dx%d field",
			ErrOutOfBounds, row, col, f.height, f.width)
	}
	return row*f.width + col, nil
}

func (f *MineField) cell(i int) Cell {
	return Cell{Row: i / f.width, Col: i % f.width}
}

func (f *MineField) State(row, col int) (CellState, error) {
	i, err := f.index(row, col)
	if err != nil {
		return CellState{}, err
	}
	return f.grid[i], nil
}

func (f *MineField) IsMine(row, col int) (bool, error) {
	i, err := f.index(row, col)
	if err != nil {
		return false, err
	}
	return f.mines[i], nil
}

// Grid returns a copy of the player's view.
func (f *MineField) Grid() Grid {
	g := make(Grid, len(f.grid))
	copy(g, f.grid)
	return g
}

// [MineField] implements [fmt.Stringer]
func (f *MineField) String() string {
	return f.grid.ToString(f.width)
}

// Reveal opens a hidden cell. Opening a mine loses the round; opening a
// cell with no neighbouring mines opens its whole zero-count region.
// Flagged or already revealed cells and finished rounds are left alone.
func (f *MineField) Reveal(row, col int) (RevealResult, error) {
	i, err := f.index(row, col)
	if err != nil {
		return RevealResult{}, err
	}
	return f.reveal(i), nil
}

func (f *MineField) reveal(i int) RevealResult {
	if f.outcome != InProgress || f.grid[i].Kind != Hidden {
		return RevealResult{}
	}

	if f.mines[i] {
		f.detonate(i)
		Log.WithField("cell", f.cell(i)).Debug("mine detonated")
		return RevealResult{Opened: 1, Exploded: true}
	}

	opened := f.flood(i)
	f.updateOutcome()

	return RevealResult{Opened: opened, Won: f.outcome == Won}
}

// flood opens start and every hidden cell reachable from it through
// zero-count cells. A cell is opened before it is queued, so no cell is
// queued twice.
func (f *MineField) flood(start int) int {
	f.open(start)
	opened := 1
	todo := []int{start}

	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if f.grid[i].Adjacent != 0 {
			continue
		}
		for _, j := range f.neighbours(i) {
			if f.grid[j].Kind == Hidden {
				f.open(j)
				opened++
				todo = append(todo, j)
			}
		}
	}

	return opened
}

func (f *MineField) open(i int) {
	f.grid[i] = RevealedCell(f.adjacentMines(i))
	f.covered--
}

func (f *MineField) detonate(hit int) {
	for i := range f.grid {
		switch {
		case i == hit:
			f.grid[i] = CellState{Kind: DetonatedMine}
			f.covered--
		case f.mines[i] && f.grid[i].Kind == Hidden:
			f.grid[i] = CellState{Kind: RevealedMine}
			f.covered--
		case !f.mines[i] && f.grid[i].Kind == Flagged:
			f.grid[i] = CellState{Kind: FlaggedIncorrectly}
			f.flagged--
			f.covered--
		}
	}
	f.outcome = Lost
}

// updateOutcome wins the round once exactly as many cells are covered as
// there are mines, flagging every mine left hidden.
func (f *MineField) updateOutcome() {
	if f.outcome != InProgress || f.covered != f.mineCount {
		return
	}
	for i := range f.grid {
		switch {
		case f.mines[i] && f.grid[i].Kind == Hidden:
			f.grid[i] = CellState{Kind: Flagged}
			f.flagged++
		case !f.mines[i] && f.grid[i].Kind == Flagged:
			f.grid[i] = CellState{Kind: FlaggedIncorrectly}
			f.flagged--
			f.covered--
		}
	}
	f.outcome = Won
	Log.WithField("mines", f.mineCount).Debug("field cleared")
}

// ToggleFlag flips a cell between Hidden and Flagged and reports whether it
// did. Any other cell, or a finished round, is left alone.
func (f *MineField) ToggleFlag(row, col int) (bool, error) {
	i, err := f.index(row, col)
	if err != nil {
		return false, err
	}
	if f.outcome != InProgress {
		return false, nil
	}
	switch f.grid[i].Kind {
	case Hidden:
		f.grid[i] = CellState{Kind: Flagged}
		f.flagged++
		return true, nil
	case Flagged:
		f.grid[i] = CellState{Kind: Hidden}
		f.flagged--
		return true, nil
	default:
		return false, nil
	}
}

// Chord opens every hidden neighbour of a revealed cell whose count is
// matched by the flags around it. It stops as soon as the round ends.
func (f *MineField) Chord(row, col int) (RevealResult, error) {
	i, err := f.index(row, col)
	if err != nil {
		return RevealResult{}, err
	}
	if f.outcome != InProgress || f.grid[i].Kind != Revealed {
		return RevealResult{}, nil
	}

	var (
		flags  int
		hidden []int
	)
	for _, j := range f.neighbours(i) {
		switch f.grid[j].Kind {
		case Flagged:
			flags++
		case Hidden:
			hidden = append(hidden, j)
		}
	}
	if flags != f.grid[i].Adjacent {
		return RevealResult{}, nil
	}

	var result RevealResult
	for _, j := range hidden {
		result = result.merge(f.reveal(j))
		if f.outcome != InProgress {
			break
		}
	}
	return result, nil
}
