// Package http serves liveness, readiness and build metadata
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"codeeditor/internal/core/version"
	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/platform/logger"
)

// ReadyTimeout bounds all dependency pings of one readiness request
const ReadyTimeout = 2 * time.Second

// Probe checks one dependency, a nil Ping means the dependency is disabled
type Probe struct {
	Name     string
	Ping     func(context.Context) error
	Optional bool
}

// ProbeOf builds a probe from any value with a Ping method
func ProbeOf(name string, dep any, optional bool) Probe {
	p := Probe{Name: name, Optional: optional}
	if pinger, ok := dep.(interface{ Ping(context.Context) error }); ok {
		p.Ping = pinger.Ping
	}
	return p
}

type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
}

type handlers struct{ deps Deps }

func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool      `json:"ok" example:"true"`
	Service string    `json:"service" example:"codeeditor-api"`
	Started time.Time `json:"started"`
	Now     time.Time `json:"now"`
}

// ReadyCheck is the outcome of one probe: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is ok, degraded when an optional dependency failed, or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    time.Time    `json:"now"`
}

// ServiceResponse is build metadata plus uptime in seconds
type ServiceResponse struct {
	version.BuildInfo
	Started time.Time `json:"started"`
	Uptime  int64     `json:"uptime" example:"300"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC(),
		Now:     time.Now().UTC(),
	}, nil
}

// @Summary Readiness of postgres and clickhouse
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok or degraded"
// @Failure 503 {object} ReadyResponse "a required dependency failed"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.deps.Probes))
	var wg sync.WaitGroup
	for i, p := range h.deps.Probes {
		checks[i] = ReadyCheck{Name: p.Name, Status: "skipped"}
		if p.Ping == nil {
			continue
		}
		wg.Go(func() {
			if err := p.Ping(ctx); err != nil {
				checks[i].Status, checks[i].Error = "fail", err.Error()
				return
			}
			checks[i].Status = "ok"
		})
	}
	wg.Wait()

	out := ReadyResponse{Status: "ok", Checks: checks, Now: time.Now().UTC()}
	for i, c := range checks {
		if c.Status != "fail" {
			continue
		}
		if !h.deps.Probes[i].Optional {
			out.Status = "fail"
			break
		}
		out.Status = "degraded"
	}
	if out.Status == "fail" {
		logger.C(r.Context()).Warn().Interface("checks", checks).Msg("not ready")
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// @Summary Build metadata
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Service descriptor
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	info := version.Info()
	if h.deps.ServiceName != "" {
		info.Service = h.deps.ServiceName
	}
	return ServiceResponse{
		BuildInfo: info,
		Started:   h.deps.StartedAt.UTC(),
		Uptime:    int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
