// Package repo archives build log lines
package repo

import (
	"context"
	"time"

	"codeeditor/internal/core/buildlog"
	"codeeditor/internal/services/api/buildlogs/domain"
)

// Archive stores builds and returns the latest one per participation
type Archive interface {
	// Append stores a whole build, lines keep their input order as seq
	Append(ctx context.Context, b domain.Build) error
	// Latest returns the most recent build, ok=false when none was stored
	Latest(ctx context.Context, participationID int64) (domain.Build, bool, error)
}

// row is the archived form of one line
type row struct {
	Seq        uint32
	Time       time.Time
	Log        string
	Severity   string
	ReceivedAt time.Time
}

func toRows(b domain.Build) []row {
	out := make([]row, 0, len(b.Lines))
	for i, l := range b.Lines {
		out = append(out, row{
			Seq:        uint32(i),
			Time:       l.Timestamp,
			Log:        l.Message,
			Severity:   string(l.Severity),
			ReceivedAt: b.ReceivedAt,
		})
	}
	return out
}

func fromRow(r row) buildlog.LogLine {
	return buildlog.LogLine{Timestamp: r.Time, Message: r.Log, Severity: buildlog.Severity(r.Severity)}
}
