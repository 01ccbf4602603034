// Package module wires editor sessions into the API
package module

import (
	modkit "codeeditor/internal/modkit"
	"codeeditor/internal/modkit/httpkit"
	bldomain "codeeditor/internal/services/api/buildlogs/domain"
	edhttp "codeeditor/internal/services/api/editor/http"
	edsvc "codeeditor/internal/services/api/editor/service"
	exdomain "codeeditor/internal/services/api/exercises/domain"
)

// Ports are what the editor consumes, BuildLogs is optional
type Ports struct {
	Exercises exdomain.Ports
	BuildLogs bldomain.Ports
}

// Module serves sessions over HTTP and their events over websocket
type Module struct {
	modkit.Base

	svc     *edsvc.Svc
	origins []string
}

// New builds the module, the exercises port must be injected with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("editor"), modkit.WithPrefix("/editor/sessions")}, opts...)...)
	o := FromConfig(deps.Cfg)

	in, _ := b.Injected().(Ports)
	if in.Exercises.Exercises == nil {
		panic("editor module requires the exercises port")
	}

	svc := edsvc.New(edsvc.Config{
		TTL:         o.SessionTTL,
		MaxSessions: o.MaxSessions,
		Buffer:      o.EventBuffer,
	}, edsvc.Deps{
		Exercises: in.Exercises.Exercises,
		BuildLogs: in.BuildLogs.BuildLogs,
		Notifier:  in.BuildLogs.Notifier,
	})

	return &Module{Base: b, svc: svc, origins: o.WSOrigins}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { edhttp.Register(rr, m.svc) })
}

// MountStreams serves the websocket event stream under the same prefix on the stream router
func (m *Module) MountStreams(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		edhttp.RegisterEvents(rr, m.svc, m.origins)
	})
}

// Ports exposes the session service
func (m *Module) Ports() any { return m.svc }

// Close ends all sessions and stops following builds
func (m *Module) Close() { m.svc.Shutdown() }
