// Package store opens the optional storage backends behind small interfaces
// repositories depend on the interfaces, never on pgx or clickhouse-go directly
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeeditor/internal/platform/logger"
	chx "codeeditor/internal/platform/store/ch"
	"codeeditor/internal/platform/store/pg"
)

// Row is a single scannable result
type Row interface {
	Scan(dest ...any) error
}

// Rows is an iterated result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface of a pool or a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn in one transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar surface, Insert takes [][]any rows
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends were enabled, the others stay nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Option adjusts a Store before backends are dialed
type Option func(*Store)

// WithLogger routes backend logs, including traced sql, to log
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open dials every enabled backend and fails on the first error
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: logger.Get().With().Logger()}
	for _, o := range opts {
		o(s)
	}

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg.PG, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = p
	}
	if cfg.CH.Enabled {
		c, err := chx.Open(ctx, chx.Config{
			URL:         cfg.CH.URL,
			ClientName:  cfg.CH.ClientName,
			ClientRole:  cfg.CH.ClientRole,
			DialTimeout: cfg.CH.DialTimeout,
		})
		if err != nil {
			if c, ok := s.PG.(interface{ Close() error }); ok {
				_ = c.Close()
			}
			return nil, err
		}
		s.CH = columnar{c}
	}
	return s, nil
}

func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (*postgres, error) {
	if cfg.URL == "" {
		return nil, errors.New("pg: empty url")
	}
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, Slow: cfg.SlowQuery}, tracer, nil)
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, p.Pool.Ping, cfg.ConnectAttempts); err != nil {
		p.Close()
		return nil, fmt.Errorf("pg: %w", err)
	}
	return newPostgres(p), nil
}

// waitReady pings with capped exponential backoff until ping succeeds or attempts run out
func waitReady(ctx context.Context, ping func(context.Context) error, attempts int) error {
	const (
		perPing  = 3 * time.Second
		firstGap = 150 * time.Millisecond
		maxGap   = 2 * time.Second
	)
	attempts = max(attempts, 1)
	gap := firstGap
	var err error
	for i := range attempts {
		pctx, cancel := context.WithTimeout(ctx, perPing)
		err = ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(gap):
		}
		gap = min(gap*2, maxGap)
	}
	return fmt.Errorf("not ready after %d attempts: %w", attempts, err)
}

// Ping checks every backend that can report readiness
func (s *Store) Ping(ctx context.Context) error {
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	if p, ok := s.CH.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ch: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every backend
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
