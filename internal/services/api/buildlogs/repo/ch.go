package repo

import (
	"context"
	"time"

	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/store"
	"codeeditor/internal/services/api/buildlogs/domain"
)

// Table is the clickhouse table holding build log lines
const Table = "build_log_lines"

const createTable = `
CREATE TABLE IF NOT EXISTS build_log_lines (
	participation_id Int64,
	build_id         String,
	seq              UInt32,
	time             DateTime64(3, 'UTC'),
	log              String,
	severity         LowCardinality(String),
	received_at      DateTime64(3, 'UTC')
)
ENGINE = MergeTree
ORDER BY (participation_id, received_at, build_id, seq)
`

// epoch stands in for unparseable line times, DateTime64 cannot hold year 1
var epoch = time.Unix(0, 0).UTC()

// CH archives lines in clickhouse
type CH struct{ db store.Clickhouse }

// NewCH returns a clickhouse archive, call EnsureSchema once at startup
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("buildlogs.NewCH requires a clickhouse seam")
	}
	return &CH{db: db}
}

// EnsureSchema creates the table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	if err := c.db.Exec(ctx, createTable); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create build_log_lines")
	}
	return nil
}

// Append writes all lines of b in one batch
func (c *CH) Append(ctx context.Context, b domain.Build) error {
	rows := toRows(b)
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		t := r.Time
		if t.IsZero() {
			t = epoch
		}
		data = append(data, []any{b.ParticipationID, b.BuildID, r.Seq, t, r.Log, r.Severity, r.ReceivedAt})
	}
	if err := c.db.Insert(ctx, Table, data); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "insert build log lines")
	}
	return nil
}

// Latest reads the lines of the most recently received build
func (c *CH) Latest(ctx context.Context, participationID int64) (domain.Build, bool, error) {
	const sql = `
SELECT build_id, seq, time, log, severity, received_at
FROM build_log_lines
WHERE participation_id = ?
  AND build_id = (
	SELECT argMax(build_id, received_at)
	FROM build_log_lines
	WHERE participation_id = ?
  )
ORDER BY seq
`
	rs, err := c.db.Query(ctx, sql, participationID, participationID)
	if err != nil {
		return domain.Build{}, false, perr.Wrap(err, perr.ErrorCodeDB, "query latest build")
	}
	defer rs.Close()

	b := domain.Build{ParticipationID: participationID}
	for rs.Next() {
		var (
			r       row
			buildID string
		)
		if err := rs.Scan(&buildID, &r.Seq, &r.Time, &r.Log, &r.Severity, &r.ReceivedAt); err != nil {
			return domain.Build{}, false, perr.Wrap(err, perr.ErrorCodeDB, "scan build log line")
		}
		b.BuildID = buildID
		b.ReceivedAt = r.ReceivedAt
		b.Lines = append(b.Lines, fromRow(r))
	}
	if err := rs.Err(); err != nil {
		return domain.Build{}, false, perr.Wrap(err, perr.ErrorCodeDB, "iterate build log lines")
	}
	if b.BuildID == "" {
		return domain.Build{}, false, nil
	}
	for i := range b.Lines {
		if b.Lines[i].Timestamp.Equal(epoch) {
			b.Lines[i].Timestamp = time.Time{}
		}
	}
	return b, true, nil
}
