// Package module wires build logs into the API
package module

import (
	"context"

	"codeeditor/internal/core/buildlog"
	modkit "codeeditor/internal/modkit"
	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/platform/cache"
	"codeeditor/internal/platform/logger"
	blhttp "codeeditor/internal/services/api/buildlogs/http"
	blrepo "codeeditor/internal/services/api/buildlogs/repo"
	blsvc "codeeditor/internal/services/api/buildlogs/service"
)

// ParticipationPrefix is where per participation build log routes live
const ParticipationPrefix = "/participations/{participationID}/buildlogs"

// Module serves extraction under its prefix and archived builds under ParticipationPrefix
type Module struct {
	modkit.Base

	svc       blsvc.Service
	ports     Ports
	cache     *cache.Cache
	bodyLimit int64
}

// New builds the module, builds stay in process when clickhouse is disabled or unusable
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("buildlogs"), modkit.WithPrefix("/buildlogs")}, opts...)...)
	o := FromConfig(deps.Cfg)
	log := logger.Named(b.Name())

	svcOpts := []blsvc.Option{
		blsvc.WithExtractor(buildlog.New(buildlog.WithSourceRoot(o.SourceRoot))),
		blsvc.WithMaxLines(o.MaxLines),
	}
	var c *cache.Cache
	if o.CacheMB > 0 {
		var err error
		if c, err = cache.New(cache.Config{MaxCostBytes: int64(o.CacheMB) << 20, TTL: o.CacheTTL}); err != nil {
			log.Warn().Err(err).Msg("build errors cache disabled")
		} else {
			svcOpts = append(svcOpts, blsvc.WithCache(c))
		}
	}
	svc := blsvc.New(archive(deps, log), svcOpts...)

	return &Module{
		Base:      b,
		svc:       svc,
		ports:     Ports{BuildLogs: svc, Notifier: svc},
		cache:     c,
		bodyLimit: int64(o.BodyLimitMB) << 20,
	}
}

func archive(deps modkit.Deps, log *logger.Logger) blrepo.Archive {
	if deps.CH == nil {
		return blrepo.NewMemory()
	}
	ch := blrepo.NewCH(deps.CH)
	if err := ch.EnsureSchema(context.Background()); err != nil {
		log.Error().Err(err).Msg("build log table unavailable, using in process archive")
		return blrepo.NewMemory()
	}
	return ch
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(rr httpkit.Router) { blhttp.RegisterExtract(rr, m.svc, m.bodyLimit) })
	m.MountAt(r, ParticipationPrefix, func(rr httpkit.Router) {
		blhttp.RegisterParticipation(rr, m.svc, m.bodyLimit)
	})
}

// Close releases the result cache
func (m *Module) Close() { m.cache.Close() }
