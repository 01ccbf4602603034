package module

import (
	"time"

	"codeeditor/internal/platform/config"
)

// Options configure the exercises module
type Options struct {
	CacheMB  int
	CacheTTL time.Duration
	// AutoMigrate creates the tables on startup
	AutoMigrate bool
}

// FromConfig reads with CORE_EXERCISES_ prefix
// a zero CACHE_MB disables the lookup cache
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_EXERCISES_")
	return Options{
		CacheMB:     c.MayInt("CACHE_MB", 8),
		CacheTTL:    c.MayDuration("CACHE_TTL", 30*time.Second),
		AutoMigrate: c.MayBool("AUTO_MIGRATE", false),
	}
}
