package modkit

import (
	"net/http"

	"codeeditor/internal/modkit/httpkit"
)

// Option adjusts a Base during Build
type Option func(*Base)

// WithName names the module in logs
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix sets the mount path
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares appends per module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mws = append(b.mws, mw...) }
}

// WithPorts hands a module the ports of the modules it consumes
// the concrete type is declared by the consuming module
func WithPorts[T any](p T) Option { return func(b *Base) { b.injected = p } }

// WithSubrouter wraps the module router before routes are registered
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Base) { b.subrouter = fn }
}

// WithRegister adds routes next to the module's own
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Base) { b.extend = fn } }
