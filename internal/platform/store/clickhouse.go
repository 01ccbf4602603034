package store

import (
	"context"
	"errors"

	chx "codeeditor/internal/platform/store/ch"
)

// ErrCHInsertShape rejects Insert payloads other than [][]any
var ErrCHInsertShape = errors.New("store: clickhouse insert wants [][]any")

// columnar adapts *ch.CH to Clickhouse
type columnar struct{ c *chx.CH }

func (a columnar) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return ErrCHInsertShape
	}
	return a.c.Insert(ctx, table, rows)
}

func (a columnar) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a columnar) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (a columnar) Ping(ctx context.Context) error { return a.c.Ping(ctx) }

func (a columnar) Close() error { return a.c.Close() }

// chRows drops the Close error to match Rows
type chRows struct{ chx.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
