package module

import (
	"context"

	"codeeditor/internal/core/repodomain"
	"codeeditor/internal/services/api/exercises/domain"
	exsvc "codeeditor/internal/services/api/exercises/service"
)

// Ports is the exercises port set
type Ports = domain.Ports

// Ports returns the exercises port set
func (m *Module) Ports() any { return m.ports }

type adaptExercisesPort struct{ svc exsvc.Service }

func (a adaptExercisesPort) Get(ctx context.Context, exerciseID int64) (repodomain.Exercise, error) {
	return a.svc.Get(ctx, exerciseID)
}

func (a adaptExercisesPort) ListParticipations(ctx context.Context, in domain.ListParticipationsInput) ([]domain.ParticipationRow, error) {
	return a.svc.ListParticipations(ctx, in)
}

func (a adaptExercisesPort) SetAssignment(ctx context.Context, exerciseID int64, in domain.SetAssignmentInput) (repodomain.Exercise, error) {
	return a.svc.SetAssignment(ctx, exerciseID, in)
}

// LoadExercise lets the port serve as a session loader
func (a adaptExercisesPort) LoadExercise(ctx context.Context, exerciseID int64) (repodomain.Exercise, error) {
	return a.svc.Get(ctx, exerciseID)
}
