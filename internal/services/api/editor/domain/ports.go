package domain

import "context"

// ServicePort is consumed by handlers
type ServicePort interface {
	Open(ctx context.Context, in OpenInput) (SessionView, error)
	Get(ctx context.Context, id string) (SessionView, error)
	Navigate(ctx context.Context, id string, r Route) (SessionView, error)
	SetAssignment(ctx context.Context, id string, in SetAssignmentInput) (SessionView, error)
	Close(ctx context.Context, id string) error
	// Subscribe streams session events until cancel is called or the session closes
	Subscribe(ctx context.Context, id string) (events <-chan Event, cancel func(), err error)
}
