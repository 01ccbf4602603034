package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"codeeditor/internal/platform/net/middleware"
)

// SlowRequest is the access log threshold for warn level
const SlowRequest = 500 * time.Millisecond

// CommonStack is the middleware applied to every /api route
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(SlowRequest),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// StreamStack is the stack for long lived connections such as websockets
// it leaves out timeout and compression, both break upgraded connections
func StreamStack(cors middleware.CORSOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(0),
		middleware.RecoverJSON,
		middleware.CORS(cors),
	}
}
