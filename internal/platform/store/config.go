package store

import (
	"time"

	"codeeditor/internal/platform/config"
)

// Config selects and configures the backends Open dials
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// LogSQL traces every statement through the store logger
	LogSQL bool
	// SlowQuery marks traced statements at or above it as slow, zero disables
	SlowQuery time.Duration
	// ConnectAttempts bounds the startup ping loop
	ConnectAttempts int
}

// CHConfig configures the clickhouse connection
type CHConfig struct {
	Enabled     bool
	URL         string
	ClientName  string
	ClientRole  string
	DialTimeout time.Duration
}

// LoadConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* from root
// clickhouse is enabled when a url is set unless ENABLED says otherwise
func LoadConfig(root config.Conf, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	chURL := ch.MayString("DBURL", "")

	return Config{
		PG: PGConfig{
			Enabled:         pg.MayBool("ENABLED", true),
			URL:             pg.MayString("DBURL", ""),
			MaxConns:        int32(pg.MayInt("MAX_CONNS", 4)),
			LogSQL:          pg.MayBool("LOG_SQL", false),
			SlowQuery:       pg.MayDuration("SLOW_QUERY", 500*time.Millisecond),
			ConnectAttempts: pg.MayInt("CONNECT_ATTEMPTS", 20),
		},
		CH: CHConfig{
			Enabled:     ch.MayBool("ENABLED", chURL != ""),
			URL:         chURL,
			ClientName:  "codeeditor",
			ClientRole:  role,
			DialTimeout: ch.MayDuration("DIAL_TIMEOUT", 5*time.Second),
		},
	}
}
