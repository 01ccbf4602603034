// Package swaggerkit serves the OpenAPI document and swagger ui under /api/docs
package swaggerkit

import (
	"net/http"

	phttp "codeeditor/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options configure Mount
type Options struct {
	Enabled bool
	// BasePath is the server url written into the document
	BasePath string
	// TitleSuffix is appended to the document title, for example the environment name
	TitleSuffix string
}

// Mount serves /api/docs/doc.json and the ui when enabled
func Mount(r phttp.Router, opt Options) {
	if !opt.Enabled {
		return
	}
	base := opt.BasePath
	if base == "" {
		base = "/api/v1"
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDoc(base, opt.TitleSuffix))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
