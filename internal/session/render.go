package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

func (s *Session) render() {
	s.clock.Update()

	var b strings.Builder
	fmt.Fprintf(&b, "mines %02d  time %s  [%s %s]\n",
		s.field.RemainingMines(), s.clock, s.preset.Name, s.preset.GameParams)

	h, w := s.field.Height(), s.field.Width()
	cw := len(strconv.Itoa(max(h, w) - 1))
	grid := s.field.Grid()

	fmt.Fprintf(&b, "%*s", cw, "")
	for col := range w {
		fmt.Fprintf(&b, " %*d", cw, col)
	}
	b.WriteByte('\n')
	for row := range h {
		fmt.Fprintf(&b, "%*d", cw, row)
		for col := range w {
			fmt.Fprintf(&b, " %*s", cw, grid[row*w+col])
		}
		b.WriteByte('\n')
	}

	switch s.field.Outcome() {
	case mines.Won:
		fmt.Fprintf(&b, "cleared in %ds. n for a new round, q to quit\n", s.clock.Elapsed())
	case mines.Lost:
		fmt.Fprintf(&b, "boom after %ds. n for a new round, q to quit\n", s.clock.Elapsed())
	}

	fmt.Fprint(s.out, b.String())
}

func (s *Session) renderRecords(records []repository.Record) {
	if len(records) == 0 {
		fmt.Fprintf(s.out, "no records for %s yet\n", s.preset.GameParams)
		return
	}
	fmt.Fprintf(s.out, "best times for %s:\n", s.preset.GameParams)
	for i, r := range records {
		fmt.Fprintf(s.out, "%2d. %4ds  %s  %s\n",
			i+1, r.ElapsedSeconds, r.Preset, r.FinishedAt.Format("2006-01-02 15:04"))
	}
}
