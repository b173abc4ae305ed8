package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/sweeper/internal/mines"
)

type Record struct {
	RoundID        string    `db:"round_id" json:"round_id"`
	Preset         string    `db:"preset" json:"preset"`
	Height         int       `db:"height" json:"height"`
	Width          int       `db:"width" json:"width"`
	MineCount      int       `db:"mine_count" json:"mine_count"`
	Won            bool      `db:"won" json:"won"`
	ElapsedSeconds int       `db:"elapsed_seconds" json:"elapsed_seconds"`
	FinishedAt     time.Time `db:"finished_at" json:"finished_at"`
}

// ErrRecordRejected is returned when a record breaks a table constraint,
// such as a duplicate round id.
var ErrRecordRejected = errors.New("round record rejected")

type CreateRecordParams struct {
	RoundID        uuid.UUID
	Preset         mines.Preset
	Won            bool
	ElapsedSeconds int
}

func (p CreateRecordParams) Args() pgx.NamedArgs {
	return pgx.NamedArgs{
		"round_id":        p.RoundID.String(),
		"preset":          p.Preset.Name,
		"height":          p.Preset.Height,
		"width":           p.Preset.Width,
		"mine_count":      p.Preset.MineCount,
		"won":             p.Won,
		"elapsed_seconds": p.ElapsedSeconds,
	}
}

func (q Queries) CreateRecord(
	ctx context.Context, params CreateRecordParams,
) (*Record, error) {
	rows, err := q.db.Query(
		ctx,
		`INSERT INTO round_record (
			round_id, preset, height, width, mine_count, won, elapsed_seconds
		)
		VALUES (
			@round_id, @preset, @height, @width, @mine_count, @won, @elapsed_seconds
		)
		RETURNING *;`,
		params.Args(),
	)
	if err == nil {
		var record *Record
		record, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
		if err == nil {
			return record, nil
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, fmt.Errorf("%w: %s", ErrRecordRejected, pgErr.Message)
	}
	return nil, fmt.Errorf("unable to insert round record: %w", err)
}

type RecordFilter struct {
	preset *string
	params *mines.GameParams
	limit  int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := []string{"won = true"}
	args := pgx.NamedArgs{}
	if f.preset != nil {
		clauses = append(clauses, "preset = @preset")
		args["preset"] = *f.preset
	}
	if f.params != nil {
		clauses = append(
			clauses,
			"height = @height",
			"width = @width",
			"mine_count = @mine_count",
		)
		args["height"] = f.params.Height
		args["width"] = f.params.Width
		args["mine_count"] = f.params.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

type RecordsOption = func(*RecordFilter) error

func RecordsForPreset(name string) RecordsOption {
	return func(f *RecordFilter) error {
		f.preset = &name
		return nil
	}
}

func RecordsForParams(params mines.GameParams) RecordsOption {
	return func(f *RecordFilter) error {
		if err := params.Validate(); err != nil {
			return err
		}
		f.params = &params
		return nil
	}
}

func RecordsLimit(n int) RecordsOption {
	return func(f *RecordFilter) error {
		if n <= 0 {
			return fmt.Errorf("records limit must be positive, got %d", n)
		}
		f.limit = n
		return nil
	}
}

func NewRecordFilter(options ...RecordsOption) (*RecordFilter, error) {
	filter := &RecordFilter{}
	for _, op := range options {
		if err := op(filter); err != nil {
			return nil, err
		}
	}
	return filter, nil
}

// Query builds the leaderboard statement: won rounds, fastest first.
func (f RecordFilter) Query() (string, pgx.NamedArgs) {
	whereClause, args := f.WhereClause()
	sql := `SELECT * FROM round_record WHERE ` + whereClause +
		` ORDER BY elapsed_seconds, finished_at`
	if f.limit > 0 {
		sql += " LIMIT @limit"
		args["limit"] = f.limit
	}
	return sql, args
}

func (q Queries) GetRecords(
	ctx context.Context, options ...RecordsOption,
) ([]Record, error) {
	filter, err := NewRecordFilter(options...)
	if err != nil {
		return nil, err
	}
	sql, args := filter.Query()
	rows, err := q.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
