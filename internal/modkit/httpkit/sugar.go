package httpkit

import (
	"net/http"

	phttp "codeeditor/internal/platform/net/http"
)

// handlers without a body

func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, phttp.Call(h)) }

func Post(r Router, path string, h func(*http.Request) (any, error)) { r.Post(path, phttp.Call(h)) }

func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, phttp.Call(h))
}

// handlers decoding and validating a T body first

func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// PostJSONLimit is PostJSON with its own body cap in bytes
func PostJSONLimit[T any](r Router, path string, maxBytes int64, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h, JSONOptions{MaxBytes: maxBytes}))
}

func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, phttp.JSONHandler(h))
}
