package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeeditor/internal/platform/net/middleware"
)

func chain(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_Heartbeat(t *testing.T) {
	rec := httptest.NewRecorder()
	chain(http.NotFoundHandler(), CommonStack()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStacks_ReachHandlerWithRequestID(t *testing.T) {
	stacks := map[string][]func(http.Handler) http.Handler{
		"common": CommonStack(),
		"stream": StreamStack(middleware.CORSOptions{}),
	}
	for name, stack := range stacks {
		t.Run(name, func(t *testing.T) {
			var reqID string
			final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reqID = r.Header.Get("X-Request-Id")
				w.WriteHeader(http.StatusNoContent)
			})
			req := httptest.NewRequest(http.MethodGet, "/editor/sessions/x", nil)
			req.Header.Set("X-Request-Id", "abc")

			rec := httptest.NewRecorder()
			chain(final, stack).ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent || reqID != "abc" {
				t.Fatalf("status = %d reqID = %q", rec.Code, reqID)
			}
		})
	}
}
