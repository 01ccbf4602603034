package store

import (
	"context"
	"time"

	"codeeditor/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on db and reports each one to the tracer
type traced struct {
	db     pgxQuerier
	tracer pg.QueryTracer
	slow   time.Duration
}

func (t traced) observe(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	took := time.Since(start)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: took,
		Err:     err,
		Slow:    t.slow > 0 && took >= t.slow,
	})
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.db.Exec(ctx, sql, args...)
	t.observe(ctx, sql, args, start, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.db.Query(ctx, sql, args...)
	t.observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

// QueryRow reports once the caller scanned, pgx defers the error until then
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return scanHook{
		row: t.db.QueryRow(ctx, sql, args...),
		done: func(err error) {
			t.observe(ctx, sql, args, start, err)
		},
	}
}

type scanHook struct {
	row  pgx.Row
	done func(error)
}

func (s scanHook) Scan(dest ...any) error {
	err := s.row.Scan(dest...)
	s.done(err)
	return err
}

type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fds := r.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}

// postgres is the TxRunner over a pool
type postgres struct {
	traced
	p *pg.PG
}

func newPostgres(p *pg.PG) *postgres {
	return &postgres{traced: traced{db: p.Pool, tracer: p.Tracer, slow: p.Slow}, p: p}
}

func (s *postgres) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := s.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{db: tx, tracer: s.tracer, slow: s.slow}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *postgres) Ping(ctx context.Context) error { return s.p.Pool.Ping(ctx) }

func (s *postgres) Close() error {
	s.p.Close()
	return nil
}
