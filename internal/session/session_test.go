package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

func TestMain(m *testing.M) {
	Log.SetOutput(io.Discard)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

type fakeStore struct {
	created []repository.CreateRecordParams
	records []repository.Record
	err     error
}

func (f *fakeStore) CreateRecord(_ context.Context, p repository.CreateRecordParams) (*repository.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &repository.Record{RoundID: p.RoundID.String(), Won: p.Won}, nil
}

func (f *fakeStore) GetRecords(_ context.Context, options ...repository.RecordsOption) ([]repository.Record, error) {
	if _, err := repository.NewRecordFilter(options...); err != nil {
		return nil, err
	}
	return f.records, f.err
}

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

// tiny is a 2x2 board with a single mine in the top-left corner.
var tiny = mines.Preset{
	Name:       mines.CustomPreset,
	GameParams: mines.GameParams{Height: 2, Width: 2, MineCount: 1},
}

func cornerMine(p mines.GameParams) (*mines.MineField, error) {
	return mines.NewWithMines(p.Height, p.Width, []mines.Cell{{Row: 0, Col: 0}})
}

type harness struct {
	s     *Session
	out   *bytes.Buffer
	store *fakeStore
	time  *fakeTime
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		out:   &bytes.Buffer{},
		store: &fakeStore{},
		time:  &fakeTime{t: time.Unix(0, 0)},
	}
	s, err := New(h.out, tiny,
		WithFieldFactory(cornerMine),
		WithRecordStore(h.store),
		WithTimeSource(h.time.now),
	)
	require.NoError(t, err)
	h.s = s
	return h
}

func (h *harness) exec(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		quit, err := h.s.Execute(context.Background(), line)
		require.NoError(t, err, line)
		require.False(t, quit, line)
	}
}

func TestWinningRound(t *testing.T) {
	h := newHarness(t)

	h.exec(t, "f 0 0", "o 0 1", "o 1 0")
	assert.Equal(t, mines.InProgress, h.s.Field().Outcome())

	h.time.t = h.time.t.Add(12 * time.Second)
	h.exec(t, "o 1 1")

	assert.Equal(t, mines.Won, h.s.Field().Outcome())
	require.Len(t, h.store.created, 1)
	rec := h.store.created[0]
	assert.True(t, rec.Won)
	assert.Equal(t, 12, rec.ElapsedSeconds)
	assert.Equal(t, tiny, rec.Preset)
	assert.Contains(t, h.out.String(), "cleared in 12s")

	// the clock is frozen and the round is not recorded twice
	h.time.t = h.time.t.Add(time.Minute)
	h.exec(t, "o 0 0", "p")
	assert.Equal(t, 12, h.s.Clock().Update())
	assert.Len(t, h.store.created, 1)
	assert.Contains(t, h.out.String(), "round is over")
}

func TestLosingRound(t *testing.T) {
	h := newHarness(t)

	h.exec(t, "o 1 1")
	assert.Contains(t, h.out.String(), "mines 01  time 000")

	h.time.t = h.time.t.Add(3 * time.Second)
	h.exec(t, "o 0 0")

	assert.Equal(t, mines.Lost, h.s.Field().Outcome())
	require.Len(t, h.store.created, 1)
	assert.False(t, h.store.created[0].Won)
	assert.Equal(t, 3, h.store.created[0].ElapsedSeconds)
	assert.Contains(t, h.out.String(), "boom after 3s")
	assert.Contains(t, h.out.String(), "0 X #\n1 # 1\n")
}

func TestRender(t *testing.T) {
	h := newHarness(t)
	h.out.Reset()

	h.exec(t, "f 0 1", "p")
	assert.True(t, strings.HasSuffix(h.out.String(),
		"mines 00  time 000  [custom 2x2/1]\n  0 1\n0 # F\n1 # #\n"), h.out.String())
}

func TestNewRound(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "o 0 0")
	first := h.s.roundID

	h.exec(t, "n")
	assert.Equal(t, mines.InProgress, h.s.Field().Outcome())
	assert.NotEqual(t, first, h.s.roundID)
	assert.False(t, h.s.recorded)

	h.exec(t, "n height=3&width=4&mine_count=1")
	assert.Equal(t, mines.CustomPreset, h.s.Preset().Name)
	assert.Equal(t, 3, h.s.Field().Height())
	assert.Equal(t, 4, h.s.Field().Width())
}

func TestNewRoundWithPreset(t *testing.T) {
	out := &bytes.Buffer{}
	s, err := New(out, mines.Beginner)
	require.NoError(t, err)

	_, err = s.Execute(context.Background(), "n expert")
	require.NoError(t, err)
	assert.Equal(t, mines.Expert, s.Preset())
	assert.Equal(t, 99, s.Field().MineCount())
	assert.Contains(t, out.String(), "[expert 16x30/99]")
}

func TestRejectedCommands(t *testing.T) {
	tests := []struct {
		line string
		err  error
	}{
		{line: "x 1 1"},
		{line: "o 1"},
		{line: "o a 1"},
		{line: "f 1 b"},
		{line: "p extra"},
		{line: "n nightmare"},
		{line: "n height=9&width=9&mine_count=100", err: mines.ErrInvalidConfiguration},
		{line: "o 2 0", err: mines.ErrOutOfBounds},
		{line: "c -1 0", err: mines.ErrOutOfBounds},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			h := newHarness(t)
			before := h.s.Field().Grid()

			quit, err := h.s.Execute(context.Background(), test.line)
			assert.False(t, quit)
			require.Error(t, err)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
			}
			assert.Equal(t, before, h.s.Field().Grid())
			assert.Equal(t, tiny, h.s.Preset())
		})
	}
}

func TestChordCommand(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "o 1 1", "f 0 0", "c 1 1")
	assert.Equal(t, mines.Won, h.s.Field().Outcome())
}

func TestLeaderboard(t *testing.T) {
	h := newHarness(t)
	h.store.records = []repository.Record{
		{Preset: "custom", ElapsedSeconds: 4, FinishedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{Preset: "custom", ElapsedSeconds: 9, FinishedAt: time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC)},
	}

	h.exec(t, "s")
	assert.Contains(t, h.out.String(), "best times for 2x2/1:")
	assert.Contains(t, h.out.String(), " 1.    4s  custom  2024-05-01 10:30")
	assert.Contains(t, h.out.String(), " 2.    9s  custom  2024-05-02 11:00")

	h.store.records = nil
	h.exec(t, "s")
	assert.Contains(t, h.out.String(), "no records for 2x2/1 yet")
}

func TestLeaderboardDisabled(t *testing.T) {
	out := &bytes.Buffer{}
	s, err := New(out, tiny, WithFieldFactory(cornerMine))
	require.NoError(t, err)

	_, err = s.Execute(context.Background(), "s")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "records are disabled")

	// finishing a round without a store is fine
	_, err = s.Execute(context.Background(), "o 0 0")
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, s.Field().Outcome())
}

func TestRecordFailureIsReported(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("db down")

	h.exec(t, "o 0 0")
	assert.Contains(t, h.out.String(), "warning: round was not recorded: database unavailable")

	_, err := h.s.Execute(context.Background(), "s")
	assert.ErrorContains(t, err, "db down")
}

func TestRecordRejectedIsReported(t *testing.T) {
	h := newHarness(t)
	h.store.err = fmt.Errorf("%w: duplicate key", repository.ErrRecordRejected)

	h.exec(t, "o 0 0")
	assert.Contains(t, h.out.String(), "warning: round was not recorded: the database rejected it")
	assert.Equal(t, mines.Lost, h.s.Field().Outcome())
}

func TestRun(t *testing.T) {
	h := newHarness(t)
	in := strings.NewReader("h\n\nbogus\no 1 1\nq\no 0 0\n")

	err := h.s.Run(context.Background(), in)
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "commands:")
	assert.Contains(t, out, `error: unknown command "bogus"`)
	assert.Equal(t, mines.InProgress, h.s.Field().Outcome(), "commands after q are not executed")
}

func TestRunEndOfInput(t *testing.T) {
	h := newHarness(t)
	err := h.s.Run(context.Background(), strings.NewReader("o 1 1\n"))
	require.NoError(t, err)

	s, err := h.s.Field().State(1, 1)
	require.NoError(t, err)
	assert.Equal(t, mines.RevealedCell(1), s)
}

func TestRunCancelled(t *testing.T) {
	h := newHarness(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.s.Run(ctx, pr) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// the reader was closed, so nothing is left waiting on it
	_, err := pw.Write([]byte("o 1 1\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestRunClosesInputOnQuit(t *testing.T) {
	h := newHarness(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- h.s.Run(context.Background(), pr) }()

	_, err := pw.Write([]byte("q\n"))
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}

	_, err = pw.Write([]byte("o 1 1\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
