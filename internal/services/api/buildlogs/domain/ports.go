package domain

import (
	"context"

	"codeeditor/internal/core/buildlog"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Extract(ctx context.Context, in ExtractInput) (buildlog.Result, error)
	Ingest(ctx context.Context, in IngestInput) (IngestOutput, error)
	Latest(ctx context.Context, participationID int64) (LatestOutput, error)
	Errors(ctx context.Context, participationID int64) (buildlog.Result, error)
}

// Listener receives build error notifications
// it runs on the ingesting goroutine and must not block
type Listener func(BuildErrors)

// Notifier lets other modules follow ingested builds
type Notifier interface {
	Subscribe(fn Listener) (cancel func())
}

// Ports is the cross module surface of build logs
type Ports struct {
	BuildLogs ServicePort
	Notifier  Notifier
}
