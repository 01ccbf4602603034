package pg

import (
	"context"
	"strings"
	"time"

	"codeeditor/internal/platform/logger"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives every traced statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements under the pg component, slow or failed ones at warn
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	e := t.log.Info()
	if ev.Slow || ev.Err != nil {
		e = t.log.Warn()
	}
	if id, ok := logger.SessionID(ctx); ok {
		e = e.Str("session_id", id)
	}
	e.Dur("elapsed", ev.Elapsed).
		Bool("slow", ev.Slow).
		Str("sql", squash(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// squash collapses whitespace runs so multi line statements log on one line
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
