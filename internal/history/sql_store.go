package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	_ "modernc.org/sqlite"
)

// SQLStore implements Store on SQLite. Queries are built with ent's dialect
// builder and the tables are migrated with ent's schema migrator.
type SQLStore struct {
	db *sql.DB
}

// Open opens the SQLite database at dsn and migrates the ledger tables.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	m, err := schema.NewMigrate(drv)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history tables: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (s *SQLStore) exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

func millis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func (s *SQLStore) StartRun(ctx context.Context, run Run) error {
	query, args := builder().Insert(runsTable).
		Columns("id", "command", "base_dir", "status", "message", "generated", "skipped", "started_at").
		Values(run.ID, run.Command, run.BaseDir, string(run.Status), run.Message, run.Generated, run.Skipped, millis(run.StartedAt)).
		Query()
	if _, err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *SQLStore) AppendEntry(ctx context.Context, e Entry) error {
	query, args := builder().Insert(entriesTable).
		Columns("run_id", "seq", "level", "message", "at", "detail").
		Values(e.RunID, e.Seq, e.Level, e.Message, millis(e.At), e.Detail).
		Query()
	if _, err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLStore) FinishRun(ctx context.Context, run Run) error {
	u := builder().Update(runsTable).
		Set("status", string(run.Status)).
		Set("message", run.Message).
		Set("generated", run.Generated).
		Set("skipped", run.Skipped)
	if run.FinishedAt != nil {
		u = u.Set("finished_at", millis(*run.FinishedAt))
	}
	query, args := u.Where(entsql.EQ("id", run.ID)).Query()
	res, err := s.exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

var runColumns = []string{"id", "command", "base_dir", "status", "message", "generated", "skipped", "started_at", "finished_at"}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r        Run
		status   string
		started  int64
		finished sql.NullInt64
	)
	if err := rows.Scan(&r.ID, &r.Command, &r.BaseDir, &status, &r.Message, &r.Generated, &r.Skipped, &started, &finished); err != nil {
		return Run{}, err
	}
	r.Status = Status(status)
	r.StartedAt = fromMillis(started)
	if finished.Valid {
		t := fromMillis(finished.Int64)
		r.FinishedAt = &t
	}
	return r, nil
}

func (s *SQLStore) queryRuns(ctx context.Context, sel *entsql.Selector) ([]Run, error) {
	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetRun(ctx context.Context, id string) (Run, error) {
	sel := builder().Select(runColumns...).
		From(entsql.Table(runsTable)).
		Where(entsql.EQ("id", id))
	runs, err := s.queryRuns(ctx, sel)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return runs[0], nil
}

func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	sel := builder().Select(runColumns...).
		From(entsql.Table(runsTable)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	runs, err := s.queryRuns(ctx, sel)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	return runs, nil
}

func (s *SQLStore) Entries(ctx context.Context, runID string) ([]Entry, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	query, args := builder().Select("run_id", "seq", "level", "message", "at", "detail").
		From(entsql.Table(entriesTable)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("seq").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Level, &e.Message, &at, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.At = fromMillis(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}
