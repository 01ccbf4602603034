package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "codeeditor/internal/platform/errors"
	"codeeditor/internal/platform/logger"
	pnet "codeeditor/internal/platform/net"
)

// RecoverJSON turns a handler panic into a 500 error envelope
// http.ErrAbortHandler is re-raised so the server aborts the connection as usual
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			reqID := pnet.RequestID(r.Context())
			wire := perr.WireFrom(perr.PanicErrf("internal error"))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status_code": http.StatusInternalServerError,
				"status":      http.StatusText(http.StatusInternalServerError),
				"code":        wire.Code,
				"error":       wire.Message,
				"request_id":  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
