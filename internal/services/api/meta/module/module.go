// Package module mounts the meta endpoints
package module

import (
	"time"

	"codeeditor/internal/core/version"
	modkit "codeeditor/internal/modkit"
	"codeeditor/internal/modkit/httpkit"
	metahttp "codeeditor/internal/services/api/meta/http"
)

// Module serves /meta, it provides no ports
type Module struct {
	modkit.Base
	deps metahttp.Deps
}

func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	return &Module{Base: b, deps: metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   time.Now(),
		Probes: []metahttp.Probe{
			metahttp.ProbeOf("pg", deps.PG, false),
			metahttp.ProbeOf("ch", deps.CH, true),
		},
	}}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

func (m *Module) Ports() any { return nil }
