package module

import (
	"time"

	"codeeditor/internal/platform/config"
)

// Options configure the editor module
type Options struct {
	SessionTTL  time.Duration
	MaxSessions int
	EventBuffer int
	// WSOrigins are host patterns allowed to open event streams, empty means same origin only
	WSOrigins []string
}

// FromConfig reads with CORE_EDITOR_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_EDITOR_")
	return Options{
		SessionTTL:  c.MayDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions: c.MayInt("MAX_SESSIONS", 1000),
		EventBuffer: c.MayInt("EVENT_BUFFER", 16),
		WSOrigins:   c.MayCSV("WS_ORIGINS", nil),
	}
}
