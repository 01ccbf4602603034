// Package module wires exercises into the API
package module

import (
	"context"

	modkit "codeeditor/internal/modkit"
	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/platform/cache"
	"codeeditor/internal/platform/logger"
	exhttp "codeeditor/internal/services/api/exercises/http"
	exrepo "codeeditor/internal/services/api/exercises/repo"
	exsvc "codeeditor/internal/services/api/exercises/service"
)

// Module serves /exercises and provides the exercises ports
type Module struct {
	modkit.Base

	svc   exsvc.Service
	ports Ports
	cache *cache.Cache
}

// New builds the module, migrating the schema first when AUTO_MIGRATE is set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("exercises"), modkit.WithPrefix("/exercises")}, opts...)...)
	o := FromConfig(deps.Cfg)
	log := logger.Named(b.Name())

	var svcOpts []exsvc.Option
	c := newCache(o, log)
	if c != nil {
		svcOpts = append(svcOpts, exsvc.WithCache(c))
	}
	if o.AutoMigrate && deps.PG != nil {
		if err := exrepo.EnsureSchema(context.Background(), deps.PG); err != nil {
			log.Error().Err(err).Msg("exercises schema")
		}
	}
	svc := exsvc.New(deps.PG, exrepo.NewPG(), svcOpts...)

	return &Module{
		Base:  b,
		svc:   svc,
		ports: Ports{Exercises: adaptExercisesPort{svc: svc}},
		cache: c,
	}
}

func newCache(o Options, log *logger.Logger) *cache.Cache {
	if o.CacheMB <= 0 {
		return nil
	}
	c, err := cache.New(cache.Config{MaxCostBytes: int64(o.CacheMB) << 20, TTL: o.CacheTTL})
	if err != nil {
		log.Warn().Err(err).Msg("exercise cache disabled")
		return nil
	}
	return c
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { exhttp.Register(rr, m.svc) })
}

// Close releases the lookup cache
func (m *Module) Close() { m.cache.Close() }
