package store

import (
	"time"

	"csvprep/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero means the openers defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// ConfigFromEnv reads SERVICE_PGSQL_*; the URL is required only when enabled
func ConfigFromEnv(cfg config.Conf, appName string, enabled bool) Config {
	pc := cfg.Prefix("SERVICE_PGSQL_")
	out := Config{AppName: appName}
	if !enabled {
		return out
	}
	out.PG = PGConfig{
		Enabled:     true,
		URL:         pc.MustString("DBURL"),
		MaxConns:    int32(pc.MayInt("MAX_CONNS", 4)),
		LogSQL:      pc.MayBool("LOG_SQL", false),
		SlowQueryMs: pc.MayInt("SLOW_MS", 200),
	}
	return out
}
