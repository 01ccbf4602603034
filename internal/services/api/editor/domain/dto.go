// Package domain holds DTOs for editor session http and service contracts
package domain

import (
	"time"

	"codeeditor/internal/core/repodomain"
	perr "codeeditor/internal/platform/errors"
	bldomain "codeeditor/internal/services/api/buildlogs/domain"
	exdomain "codeeditor/internal/services/api/exercises/domain"
)

// OpenInput starts a session, a non zero exercise id navigates right away
type OpenInput struct {
	ExerciseID      int64 `json:"exerciseId,omitempty" validate:"gte=0" example:"42"`
	ParticipationID int64 `json:"participationId,omitempty" validate:"gte=0" example:"7"`
	Test            bool  `json:"test,omitempty"`
}

// Route is the navigation payload
type Route = repodomain.Route

// SetAssignmentInput replaces the assignment repository of the session's exercise
type SetAssignmentInput = exdomain.SetAssignmentInput

// SessionView is the observable state of a session
type SessionView struct {
	ID         string           `json:"id" example:"5b0f6a8c-3c1e-4d0a-b8a4-8f0e7e1f2d3c"`
	ExerciseID int64            `json:"exerciseId,omitempty" example:"42"`
	State      repodomain.State `json:"state" example:"selected"`
	Selected   *repodomain.View `json:"selected,omitempty"`
	Error      *perr.Wire       `json:"error,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Event types pushed to subscribers
const (
	EventDomain      = "domain"
	EventBuildErrors = "build_errors"
	EventClosed      = "closed"
)

// Event is one message on a session stream
type Event struct {
	Type        string                `json:"type"`
	Session     *SessionView          `json:"session,omitempty"`
	BuildErrors *bldomain.BuildErrors `json:"buildErrors,omitempty"`
}
