package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellKind int8

const (
	Hidden CellKind = iota
	Flagged
	Revealed
	RevealedMine
	DetonatedMine
	FlaggedIncorrectly
)

func (k CellKind) String() string {
	switch k {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	case RevealedMine:
		return "revealed mine"
	case DetonatedMine:
		return "detonated mine"
	case FlaggedIncorrectly:
		return "flagged incorrectly"
	default:
		return "CellKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// CellState is what the player can see at one grid position. Adjacent holds
// the number of neighbouring mines and is only set for Revealed cells.
type CellState struct {
	Kind     CellKind
	Adjacent int
}

func RevealedCell(adjacent int) CellState {
	return CellState{Kind: Revealed, Adjacent: adjacent}
}

// Covered reports whether the cell still hides its content.
func (s CellState) Covered() bool {
	return s.Kind == Hidden || s.Kind == Flagged
}

// [CellState] implements [fmt.Stringer]
func (s CellState) String() string {
	switch s.Kind {
	case Hidden:
		return "#"
	case Flagged:
		return "F"
	case Revealed:
		if s.Adjacent == 0 {
			return "."
		}
		return strconv.Itoa(s.Adjacent)
	case RevealedMine:
		return "*"
	case DetonatedMine:
		return "X"
	case FlaggedIncorrectly:
		return "x"
	default:
		return "!"
	}
}

type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

// Grid is a row-major buffer of cell states.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for row := range len(g) / width {
		for col := range width {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g[row*width+col].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g Grid) Count(kind CellKind) (n int) {
	for _, s := range g {
		if s.Kind == kind {
			n++
		}
	}
	return
}
