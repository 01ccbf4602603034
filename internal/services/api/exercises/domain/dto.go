// Package domain holds DTOs for exercises http and service contracts
package domain

import "time"

// ParticipationKind is the stored role of a participation row
type ParticipationKind string

const (
	// KindTemplate is the template participation
	KindTemplate ParticipationKind = "template"
	// KindSolution is the solution participation
	KindSolution ParticipationKind = "solution"
	// KindStudent is a student assignment participation
	KindStudent ParticipationKind = "student"
)

// Sort keys accepted by ListParticipations
const (
	SortID            = "id"
	SortRepositoryURL = "repositoryUrl"
	SortCreatedAt     = "createdAt"
)

// ListParticipationsInput selects and orders the participations of an exercise
type ListParticipationsInput struct {
	ExerciseID int64  `json:"exerciseId" validate:"required,gt=0" example:"42"`
	Sort       string `json:"sort,omitempty" validate:"omitempty,oneof=id repositoryUrl createdAt" example:"createdAt"`
	Asc        bool   `json:"asc,omitempty" example:"true"`
}

// ParticipationRow is one participation of an exercise
type ParticipationRow struct {
	ID            int64             `json:"id" example:"7"`
	Kind          ParticipationKind `json:"kind" example:"student"`
	RepositoryURL *string           `json:"repositoryUrl" example:"https://vcs.example/ex42-student1.git"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// SetAssignmentInput replaces or clears the assignment participation of an exercise
// a zero ParticipationID clears the slot
type SetAssignmentInput struct {
	ParticipationID int64  `json:"participationId" validate:"gte=0" example:"7"`
	RepositoryURL   string `json:"repositoryUrl,omitempty" validate:"omitempty,url,max=2048" example:"https://vcs.example/ex42-student1.git"`
}
