package module

import (
	"time"

	"codeeditor/internal/core/buildlog"
	"codeeditor/internal/platform/config"
)

// Options configure the build logs module
type Options struct {
	SourceRoot  string
	MaxLines    int
	BodyLimitMB int
	CacheMB     int
	CacheTTL    time.Duration
}

// FromConfig reads with CORE_BUILDLOGS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_BUILDLOGS_")
	return Options{
		SourceRoot:  c.MayString("SOURCE_ROOT", buildlog.DefaultSourceRoot),
		MaxLines:    c.MayInt("MAX_LINES", 50_000),
		BodyLimitMB: c.MayInt("BODY_LIMIT_MB", 16),
		CacheMB:     c.MayInt("CACHE_MB", 16),
		CacheTTL:    c.MayDuration("CACHE_TTL", 10*time.Minute),
	}
}
