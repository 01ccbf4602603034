package http

import (
	stdhttp "net/http"

	"codeeditor/internal/platform/net/http/bind"
)

// Call adapts a handler without a request body
// a Response returned as the value is written as is, anything else becomes a 200
func Call(fn func(*stdhttp.Request) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		out, err := fn(r)
		return result(out, err)
	})
}

// JSONHandler decodes and validates the body into T before calling fn
func JSONHandler[T any](fn func(*stdhttp.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		return result(out, err)
	})
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
