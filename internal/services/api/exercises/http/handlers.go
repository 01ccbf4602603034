// Package http provides http transport for exercises
package http

import (
	stdhttp "net/http"

	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/platform/net/http/bind"
	"codeeditor/internal/services/api/exercises/domain"
)

// Register mounts exercise endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{exerciseID}", h.get)
	httpkit.Get(r, "/{exerciseID}/participations", h.participations)
	httpkit.PutJSON[domain.SetAssignmentInput](r, "/{exerciseID}/assignment", h.setAssignment)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /exercises/{exerciseID} Exercises exerciseGet
// @Summary Exercise with its repository slots
// @Tags Exercises
// @Produce json
// @Param exerciseID path int true "Exercise id"
// @Success 200 {object} domain.Exercise "ok"
// @Failure 404 {object} httpkit.Envelope "unknown exercise"
// @Router /exercises/{exerciseID} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "exerciseID")
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id)
}

// swagger:route GET /exercises/{exerciseID}/participations Exercises exerciseParticipations
// @Summary Participations of an exercise
// @Tags Exercises
// @Produce json
// @Param exerciseID path int true "Exercise id"
// @Param sort query string false "id, repositoryUrl or createdAt"
// @Param asc query bool false "ascending order" default(true)
// @Success 200 {array} domain.ParticipationRow "ok"
// @Router /exercises/{exerciseID}/participations [get]
func (h *handlers) participations(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "exerciseID")
	if err != nil {
		return nil, err
	}
	in := domain.ListParticipationsInput{
		ExerciseID: id,
		Sort:       httpkit.QueryString(r, "sort", ""),
		Asc:        httpkit.QueryBool(r, "asc", true),
	}
	if err := bind.Struct(in); err != nil {
		return nil, err
	}
	return h.svc.ListParticipations(r.Context(), in)
}

// swagger:route PUT /exercises/{exerciseID}/assignment Exercises exerciseSetAssignment
// @Summary Replace or clear the assignment repository
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exerciseID path int true "Exercise id"
// @Param payload body domain.SetAssignmentInput true "Assignment"
// @Success 200 {object} domain.Exercise "ok"
// @Failure 409 {object} httpkit.Envelope "participation owned elsewhere"
// @Router /exercises/{exerciseID}/assignment [put]
func (h *handlers) setAssignment(r *stdhttp.Request, in domain.SetAssignmentInput) (any, error) {
	id, err := httpkit.ParamInt64(r, "exerciseID")
	if err != nil {
		return nil, err
	}
	return h.svc.SetAssignment(r.Context(), id, in)
}
