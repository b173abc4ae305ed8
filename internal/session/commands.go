package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

const leaderboardSize = 10

// Maps known commands to the accepted number of arguments
var commandNargs = map[string]struct{ min, max int }{
	"o": {2, 2},
	"f": {2, 2},
	"c": {2, 2},
	"n": {0, 1},
	"p": {0, 0},
	"s": {0, 0},
	"h": {0, 0},
	"q": {0, 0},
}

const helpText = `commands:
  o ROW COL   open a cell
  f ROW COL   flag or unflag a cell
  c ROW COL   open the neighbours of a satisfied number
  n [PRESET]  new round (beginner, intermediate, expert or
              height=H&width=W&mine_count=M)
  p           print the board
  s           best times for this board size
  h           this help
  q           quit
`

func parseCell(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("column must be an int")
		return
	}
	return
}

// Execute applies one command line. Blank lines are ignored.
func (s *Session) Execute(ctx context.Context, line string) (quit bool, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(parts[0]), parts[1:]
	nargs, ok := commandNargs[name]
	if !ok {
		return false, fmt.Errorf("unknown command %q, h for help", parts[0])
	}
	if len(args) < nargs.min || len(args) > nargs.max {
		return false, fmt.Errorf("invalid number of arguments for %q", name)
	}

	switch name {
	case "o", "f", "c":
		return false, s.move(ctx, name, args)
	case "n":
		preset := s.preset
		if len(args) == 1 {
			if preset, err = mines.ResolvePreset(args[0]); err != nil {
				return false, err
			}
		}
		if err := s.NewRound(preset); err != nil {
			return false, err
		}
		s.render()
	case "p":
		s.render()
	case "s":
		return false, s.leaderboard(ctx)
	case "h":
		fmt.Fprint(s.out, helpText)
	case "q":
		return true, nil
	}
	return false, nil
}

func (s *Session) move(ctx context.Context, name string, args []string) error {
	row, col, err := parseCell(args)
	if err != nil {
		return err
	}
	if s.field.Over() {
		fmt.Fprintln(s.out, "round is over: n for a new round, q to quit")
		return nil
	}

	switch name {
	case "o":
		_, err = s.field.Reveal(row, col)
	case "f":
		_, err = s.field.ToggleFlag(row, col)
	case "c":
		_, err = s.field.Chord(row, col)
	}
	if err != nil {
		return err
	}

	s.finishRound(ctx)
	s.render()
	return nil
}

func (s *Session) leaderboard(ctx context.Context) error {
	if s.store == nil {
		fmt.Fprintln(s.out, "records are disabled")
		return nil
	}
	records, err := s.store.GetRecords(ctx,
		repository.RecordsForParams(s.preset.GameParams),
		repository.RecordsLimit(leaderboardSize),
	)
	if err != nil {
		return fmt.Errorf("unable to load records: %w", err)
	}
	s.renderRecords(records)
	return nil
}
