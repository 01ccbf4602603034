package domain

import (
	"context"

	"codeeditor/internal/core/repodomain"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Get(ctx context.Context, exerciseID int64) (repodomain.Exercise, error)
	ListParticipations(ctx context.Context, in ListParticipationsInput) ([]ParticipationRow, error)
	SetAssignment(ctx context.Context, exerciseID int64, in SetAssignmentInput) (repodomain.Exercise, error)
}

// Ports is the cross module surface of exercises
type Ports struct {
	Exercises ServicePort
}

// Exercise is the exercise view served over http
type Exercise = repodomain.Exercise
