// Package http provides http transport for editor sessions
package http

import (
	stdhttp "net/http"

	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/services/api/editor/domain"
)

// Register mounts the session endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.OpenInput](r, "/", h.open)
	httpkit.Get(r, "/{sessionID}", h.get)
	httpkit.Delete(r, "/{sessionID}", h.close)
	httpkit.PutJSON[domain.Route](r, "/{sessionID}/route", h.navigate)
	httpkit.PutJSON[domain.SetAssignmentInput](r, "/{sessionID}/assignment", h.setAssignment)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /editor/sessions Editor editorOpen
// @Summary Open an editor session
// @Tags Editor
// @Accept json
// @Produce json
// @Param payload body domain.OpenInput true "Initial route"
// @Success 201 {object} domain.SessionView "opened"
// @Failure 429 {object} httpkit.Envelope "session limit reached"
// @Router /editor/sessions [post]
func (h *handlers) open(r *stdhttp.Request, in domain.OpenInput) (any, error) {
	v, err := h.svc.Open(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(v), nil
}

// swagger:route GET /editor/sessions/{sessionID} Editor editorGet
// @Summary Session state
// @Tags Editor
// @Produce json
// @Param sessionID path string true "Session id"
// @Success 200 {object} domain.SessionView "ok"
// @Failure 404 {object} httpkit.Envelope "unknown or expired session"
// @Router /editor/sessions/{sessionID} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "sessionID"))
}

// swagger:route DELETE /editor/sessions/{sessionID} Editor editorClose
// @Summary Close a session
// @Tags Editor
// @Param sessionID path string true "Session id"
// @Success 204 "closed"
// @Router /editor/sessions/{sessionID} [delete]
func (h *handlers) close(r *stdhttp.Request) (any, error) {
	if err := h.svc.Close(r.Context(), httpkit.Param(r, "sessionID")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route PUT /editor/sessions/{sessionID}/route Editor editorNavigate
// @Summary Navigate the session to an exercise repository
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionID path string true "Session id"
// @Param payload body domain.Route true "Route"
// @Success 200 {object} domain.SessionView "selected"
// @Failure 404 {object} httpkit.Envelope "no usable repository"
// @Router /editor/sessions/{sessionID}/route [put]
func (h *handlers) navigate(r *stdhttp.Request, in domain.Route) (any, error) {
	return h.svc.Navigate(r.Context(), httpkit.Param(r, "sessionID"), in)
}

// swagger:route PUT /editor/sessions/{sessionID}/assignment Editor editorSetAssignment
// @Summary Replace the assignment repository of the session exercise
// @Tags Editor
// @Accept json
// @Produce json
// @Param sessionID path string true "Session id"
// @Param payload body domain.SetAssignmentInput true "Assignment"
// @Success 200 {object} domain.SessionView "ok"
// @Router /editor/sessions/{sessionID}/assignment [put]
func (h *handlers) setAssignment(r *stdhttp.Request, in domain.SetAssignmentInput) (any, error) {
	return h.svc.SetAssignment(r.Context(), httpkit.Param(r, "sessionID"), in)
}
