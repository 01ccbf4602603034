// Package httpkit is the routing surface modules build on
// modules import it instead of the platform http package
package httpkit

import (
	"net/http"

	phttp "codeeditor/internal/platform/net/http"
	"codeeditor/internal/platform/net/http/bind"
)

type (
	Envelope    = phttp.Envelope
	Response    = phttp.Response
	Handler     = phttp.Handler
	Router      = phttp.Router
	JSONOptions = bind.JSONOptions
)

func OK(data any) Response      { return phttp.OK(data) }
func Created(data any) Response { return phttp.Created(data) }
func NoContent() Response       { return phttp.NoContent() }

func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// ParamInt64 parses a positive integer path segment
func ParamInt64(r *http.Request, name string) (int64, error) { return phttp.ParamInt64(r, name) }

func QueryBool(r *http.Request, name string, def bool) bool { return phttp.QueryBool(r, name, def) }

func QueryString(r *http.Request, name, def string) string { return phttp.QueryString(r, name, def) }
