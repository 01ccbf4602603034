// Package config reads service settings from environment variables
//
// a Conf is a prefix over the process environment, modules nest their own
// prefix under the root one:
//
//	root := config.New()
//	ed := root.Prefix("CORE_EDITOR_")
//	ttl := ed.MayDuration("SESSION_TTL", 30*time.Minute) // CORE_EDITOR_SESSION_TTL
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"codeeditor/internal/platform/logger"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the root view
func New() Conf { return Conf{} }

// Prefix returns a view whose keys are prefixed by p after the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the full variable name for key
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.Key(key)))
	return v, v != ""
}

// may parses key with parse, falling back to def when unset or malformed
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).Msg("config value ignored")
		return def
	}
	return v
}

// must parses key with parse and panics when unset or malformed
func must[T any](c Conf, key string, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.Key(key)).Str("value", s).Msg("invalid env value")
	}
	return v
}

func str(s string) (string, error) { return s, nil }

// MustString returns key or panics when it is unset
func (c Conf) MustString(key string) string { return must(c, key, str) }

// MustInt returns key as an int or panics
func (c Conf) MustInt(key string) int { return must(c, key, strconv.Atoi) }

// MayString returns key or def
func (c Conf) MayString(key, def string) string { return may(c, key, def, str) }

// MayInt returns key as an int or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayBool returns key as a bool or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns key as a duration such as 250ms or 2m, or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits key on commas and drops blank items, def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
