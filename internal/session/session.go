// Package session plays rounds over a line-oriented terminal: it reads
// commands, applies them to the current mine field and prints the board.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/clock"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

var Log = logrus.New()

type RecordStore interface {
	CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error)
	GetRecords(ctx context.Context, options ...repository.RecordsOption) ([]repository.Record, error)
}

type FieldFactory func(params mines.GameParams) (*mines.MineField, error)

type Session struct {
	out      io.Writer
	store    RecordStore
	newField FieldFactory
	now      func() time.Time

	preset   mines.Preset
	field    *mines.MineField
	clock    *clock.RoundClock
	roundID  uuid.UUID
	recorded bool
}

type Option func(*Session)

// WithRecordStore enables recording finished rounds and the leaderboard.
func WithRecordStore(store RecordStore) Option {
	return func(s *Session) { s.store = store }
}

func WithFieldFactory(f FieldFactory) Option {
	return func(s *Session) { s.newField = f }
}

func WithTimeSource(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(out io.Writer, preset mines.Preset, options ...Option) (*Session, error) {
	rnd := mines.NewRand()
	s := &Session{
		out: out,
		now: time.Now,
		newField: func(p mines.GameParams) (*mines.MineField, error) {
			return p.NewField(rnd)
		},
	}
	for _, opt := range options {
		opt(s)
	}
	if err := s.NewRound(preset); err != nil {
		return nil, err
	}
	return s, nil
}

// NewRound discards the current field and clock and starts over.
func (s *Session) NewRound(preset mines.Preset) error {
	field, err := s.newField(preset.GameParams)
	if err != nil {
		return fmt.Errorf("unable to start %s round: %w", preset.Name, err)
	}
	s.preset = preset
	s.field = field
	s.clock = clock.NewWithSource(s.now)
	s.roundID = uuid.New()
	s.recorded = false

	Log.WithFields(logrus.Fields{
		"round":  s.roundID,
		"preset": preset.Name,
		"params": preset.GameParams.String(),
	}).Info("round started")
	return nil
}

func (s *Session) Preset() mines.Preset     { return s.preset }
func (s *Session) Field() *mines.MineField  { return s.field }
func (s *Session) Clock() *clock.RoundClock { return s.clock }

// finishRound stops the clock and records the result once per round.
func (s *Session) finishRound(ctx context.Context) {
	if !s.field.Over() || s.recorded {
		return
	}
	s.recorded = true
	s.clock.Stop()

	fields := logrus.Fields{
		"round":   s.roundID,
		"preset":  s.preset.Name,
		"outcome": s.field.Outcome().String(),
		"elapsed": s.clock.Elapsed(),
	}
	Log.WithFields(fields).Info("round finished")

	if s.store == nil {
		return
	}
	_, err := s.store.CreateRecord(ctx, repository.CreateRecordParams{
		RoundID:        s.roundID,
		Preset:         s.preset,
		Won:            s.field.Outcome() == mines.Won,
		ElapsedSeconds: s.clock.Elapsed(),
	})
	switch {
	case errors.Is(err, repository.ErrRecordRejected):
		Log.WithFields(fields).WithError(err).Warn("round record rejected")
		fmt.Fprintln(s.out, "warning: round was not recorded: the database rejected it")
	case err != nil:
		Log.WithFields(fields).WithError(err).Error("unable to save round record")
		fmt.Fprintln(s.out, "warning: round was not recorded: database unavailable")
	}
}

// Run executes commands read from in until q, end of input or ctx is done.
// If in is an [io.Closer] it is closed on return, which releases the reading
// goroutine. Otherwise that goroutine stays blocked until in yields a line
// or fails.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if c, ok := in.(io.Closer); ok {
		defer c.Close()
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.render()
	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			quit, err := s.Execute(ctx, line)
			if err != nil {
				Log.WithError(err).WithField("command", line).Debug("command rejected")
				fmt.Fprintf(s.out, "error: %s\n", err)
			}
			if quit {
				return nil
			}
			s.prompt()
		}
	}
}

func (s *Session) prompt() {
	fmt.Fprint(s.out, "> ")
}
