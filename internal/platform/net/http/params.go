package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	perr "codeeditor/internal/platform/errors"
)

// Param returns a route parameter, empty when absent
func Param(r *stdhttp.Request, name string) string {
	return chi.URLParam(r, name)
}

// ParamInt64 parses a positive integer route parameter
func ParamInt64(r *stdhttp.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, perr.WithField(perr.InvalidArgf("missing path parameter %s", name), name)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a positive integer", name), name)
	}
	return n, nil
}

// QueryBool reads a boolean query parameter, def when absent or malformed
func QueryBool(r *stdhttp.Request, name string, def bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// QueryString reads a query parameter, def when absent
func QueryString(r *stdhttp.Request, name, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return def
}
