// Package api provides the HTTP API for the application
package api

import (
	"codeeditor/internal/platform/config"
	"codeeditor/internal/platform/logger"
	phttp "codeeditor/internal/platform/net/http"
	"codeeditor/internal/platform/net/middleware"
	"codeeditor/internal/platform/store"

	"codeeditor/internal/modkit"
	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/modkit/module"
	"codeeditor/internal/modkit/swaggerkit"

	blmod "codeeditor/internal/services/api/buildlogs/module"
	edmod "codeeditor/internal/services/api/editor/module"
	exmod "codeeditor/internal/services/api/exercises/module"
	metamod "codeeditor/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the root config, modules apply their own prefixes
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
	// DocsTitleSuffix is appended to the OpenAPI title, for example the environment
	DocsTitleSuffix string
	EnableProfiler  bool
	// StreamOrigins are the CORS origins allowed on /ws routes
	StreamOrigins []string
}

type closer interface{ Close() }

// Mount mounts the API service onto the given router
// the returned func releases module resources and should run after the server stopped
func Mount(r phttp.Router, opt Options) func() {
	log := logger.Named("api")
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.Deps{Cfg: opt.Config, Log: *log}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// providers first, the editor consumes both port sets
	exercises := exmod.New(deps)
	buildLogs := blmod.New(deps)

	editor := edmod.New(
		deps,
		modkit.WithPorts(edmod.Ports{
			Exercises: module.MustPortsOf[exmod.Ports](exercises),
			BuildLogs: module.MustPortsOf[blmod.Ports](buildLogs),
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		exercises,
		buildLogs,
		editor,
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, swaggerkit.Options{Enabled: opt.EnableSwagger, TitleSuffix: opt.DocsTitleSuffix})
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})

	cors := middleware.CORSOptions{AllowedOrigins: opt.StreamOrigins}
	httpkit.MountStreamsV1(r, httpkit.StreamStack(cors), func(ws httpkit.Router) {
		for _, m := range mods {
			if s, ok := m.(httpkit.StreamMounter); ok {
				s.MountStreams(ws)
			}
		}
	})

	return func() {
		// consumers before providers
		for i := len(mods) - 1; i >= 0; i-- {
			if c, ok := mods[i].(closer); ok {
				c.Close()
			}
		}
	}
}
