// Package domain holds DTOs for build log http and service contracts
package domain

import (
	"time"

	"codeeditor/internal/core/buildlog"
)

// ExtractInput is a batch of raw lines to run through the extractor
type ExtractInput struct {
	Entries []buildlog.Entry `json:"entries" validate:"dive"`
}

// IngestInput is a finished build reported for a participation
type IngestInput struct {
	ParticipationID int64            `json:"-"`
	Entries         []buildlog.Entry `json:"entries" validate:"required,dive"`
}

// IngestOutput describes an archived build
type IngestOutput struct {
	BuildID string          `json:"buildId" example:"0b9c6f8e-1f5e-4a4e-9a51-0a3f0f4d2a11"`
	Lines   int             `json:"lines" example:"120"`
	Result  buildlog.Result `json:"result"`
}

// Line is the wire form of a classified log line
// Time is milliseconds since the epoch, null when the source time did not parse
type Line struct {
	Time     *int64            `json:"time"`
	Log      string            `json:"log"`
	Severity buildlog.Severity `json:"severity"`
}

// LatestOutput is the most recent build of a participation
type LatestOutput struct {
	BuildID string                    `json:"buildId,omitempty"`
	Lines   []Line                    `json:"lines"`
	Counts  map[buildlog.Severity]int `json:"counts"`
}

// Build is an archived build as stored
type Build struct {
	ParticipationID int64
	BuildID         string
	ReceivedAt      time.Time
	Lines           []buildlog.LogLine
}

// BuildErrors is published after every ingested build
type BuildErrors struct {
	ParticipationID int64           `json:"participationId"`
	BuildID         string          `json:"buildId"`
	Result          buildlog.Result `json:"result"`
}

// Lines converts classified lines to their wire form
func Lines(in []buildlog.LogLine) []Line {
	out := make([]Line, 0, len(in))
	for _, l := range in {
		out = append(out, Line{Time: buildlog.UnixMilli(l.Timestamp), Log: l.Message, Severity: l.Severity})
	}
	return out
}
