// Package modkit composes API modules from shared deps and options
package modkit

import (
	"net/http"

	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/modkit/module"
	str "codeeditor/internal/platform/strings"
)

// Module is the contract api.Mount composes
type Module = module.Module

// Base is embedded by modules and carries the options every module honours
type Base struct {
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	injected  any
	subrouter func(httpkit.Router) httpkit.Router
	extend    func(httpkit.Router)
}

// Build applies opts in order, later options win
func Build(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Name panics when no WithName was given
func (b Base) Name() string { return str.MustString(b.name, "module name") }

// Prefix is the normalized mount path
func (b Base) Prefix() string { return str.MustPrefix(b.prefix) }

// Injected returns the value given to WithPorts, nil without one
func (b Base) Injected() any { return b.injected }

// Mount registers routes under Prefix behind the module middleware
// routes from WithRegister are added after the module's own
func (b Base) Mount(r httpkit.Router, register func(httpkit.Router)) {
	b.MountAt(r, b.Prefix(), func(rr httpkit.Router) {
		register(rr)
		if b.extend != nil {
			b.extend(rr)
		}
	})
}

// MountAt is Mount under another path, for modules that own more than one root
func (b Base) MountAt(r httpkit.Router, prefix string, register func(httpkit.Router)) {
	r.Route(prefix, func(rr httpkit.Router) {
		if len(b.mws) > 0 {
			rr.Use(b.mws...)
		}
		if b.subrouter != nil {
			rr = b.subrouter(rr)
		}
		register(rr)
	})
}
