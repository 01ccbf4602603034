// Package http provides http transport for build logs
package http

import (
	stdhttp "net/http"

	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/services/api/buildlogs/domain"
)

// DefaultBodyLimit bounds build log request bodies
const DefaultBodyLimit int64 = 16 << 20

// RegisterExtract mounts the stateless extraction endpoint
func RegisterExtract(r httpkit.Router, s domain.ServicePort, bodyLimit int64) {
	h := &handlers{svc: s}
	httpkit.PostJSONLimit[domain.ExtractInput](r, "/extract", limit(bodyLimit), h.extract)
}

// RegisterParticipation mounts endpoints under /participations/{participationID}/buildlogs
func RegisterParticipation(r httpkit.Router, s domain.ServicePort, bodyLimit int64) {
	h := &handlers{svc: s}
	httpkit.PostJSONLimit[domain.IngestInput](r, "/", limit(bodyLimit), h.ingest)
	httpkit.Get(r, "/", h.latest)
	httpkit.Get(r, "/errors", h.errors)
}

func limit(n int64) int64 {
	if n <= 0 {
		return DefaultBodyLimit
	}
	return n
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /buildlogs/extract BuildLogs buildLogsExtract
// @Summary Extract error annotations from raw build output
// @Tags BuildLogs
// @Accept json
// @Produce json
// @Param payload body domain.ExtractInput true "Build output"
// @Success 200 {object} buildlog.Result "annotations grouped by file"
// @Router /buildlogs/extract [post]
func (h *handlers) extract(r *stdhttp.Request, in domain.ExtractInput) (any, error) {
	return h.svc.Extract(r.Context(), in)
}

// swagger:route POST /participations/{participationID}/buildlogs BuildLogs buildLogsIngest
// @Summary Archive a finished build
// @Tags BuildLogs
// @Accept json
// @Produce json
// @Param participationID path int true "Participation id"
// @Param payload body domain.IngestInput true "Build output"
// @Success 201 {object} domain.IngestOutput "archived"
// @Failure 422 {object} httpkit.Envelope "too many lines"
// @Router /participations/{participationID}/buildlogs [post]
func (h *handlers) ingest(r *stdhttp.Request, in domain.IngestInput) (any, error) {
	id, err := httpkit.ParamInt64(r, "participationID")
	if err != nil {
		return nil, err
	}
	in.ParticipationID = id
	out, err := h.svc.Ingest(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route GET /participations/{participationID}/buildlogs BuildLogs buildLogsLatest
// @Summary Lines of the most recent build
// @Tags BuildLogs
// @Produce json
// @Param participationID path int true "Participation id"
// @Success 200 {object} domain.LatestOutput "ok"
// @Router /participations/{participationID}/buildlogs [get]
func (h *handlers) latest(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "participationID")
	if err != nil {
		return nil, err
	}
	return h.svc.Latest(r.Context(), id)
}

// swagger:route GET /participations/{participationID}/buildlogs/errors BuildLogs buildLogsErrors
// @Summary Error annotations of the most recent build
// @Tags BuildLogs
// @Produce json
// @Param participationID path int true "Participation id"
// @Success 200 {object} buildlog.Result "ok"
// @Router /participations/{participationID}/buildlogs/errors [get]
func (h *handlers) errors(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "participationID")
	if err != nil {
		return nil, err
	}
	return h.svc.Errors(r.Context(), id)
}
