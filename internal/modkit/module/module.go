// Package module is the contract between api.Mount and the modules it composes
package module

import phttp "codeeditor/internal/platform/net/http"

// Module mounts routes and exposes ports other modules consume
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
