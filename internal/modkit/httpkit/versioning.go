package httpkit

import (
	"net/http"
	"strings"
)

// StreamMounter is implemented by modules that serve websocket routes
type StreamMounter interface {
	MountStreams(r Router)
}

func scope(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPI scopes mount under /api/{version} behind mw
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scope(r, "/api/"+strings.TrimPrefix(version, "/"), mw, mount)
}

func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}

// MountStreamsV1 scopes mount under /ws/v1, kept apart from /api so
// the buffering and timeout middleware never wraps an upgraded connection
func MountStreamsV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scope(r, "/ws/v1", mw, mount)
}
