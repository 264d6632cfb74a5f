// Package webhook composes the HTTP receiver: health, metrics, docs and the versioned API
package webhook

import (
	"context"
	"net/http"
	"time"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/core/version"
	"csvprep/internal/platform/config"
	"csvprep/internal/platform/logger"
	phttp "csvprep/internal/platform/net/http"
	"csvprep/internal/platform/net/middleware"
	"csvprep/internal/platform/store"

	"csvprep/internal/modkit"
	"csvprep/internal/modkit/httpkit"
	"csvprep/internal/modkit/module"
	"csvprep/internal/modkit/swaggerkit"

	preprocessmod "csvprep/internal/services/preprocess/module"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options are the receiver options
type Options struct {
	Config  config.Conf
	Store   *store.Store
	Objects objstore.Store
	Logger  *logger.Logger

	// Metrics backs /metrics and the request and run collectors; nil disables both
	Metrics *prometheus.Registry

	Timeout        time.Duration
	CORSOrigins    []string
	SlowRequest    time.Duration
	EnableSwagger  bool
	EnableProfiler bool

	// CheckDestBucket verifies the destination bucket at startup; CreateDestBucket also creates it
	// on stores that can (S3, MinIO, mem)
	CheckDestBucket  bool
	CreateDestBucket bool
}

// OptionsFromConfig reads CSVPREP_* receiver settings
func OptionsFromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CSVPREP_")
	return Options{
		Config:         cfg,
		Timeout:        c.MayDuration("TIMEOUT", 5*time.Minute),
		CORSOrigins:    c.MayCSV("CORS_ORIGINS", []string{"*"}),
		SlowRequest:    c.MayDuration("SLOW_REQUEST", 30*time.Second),
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),

		CheckDestBucket:  c.MayBool("CHECK_DEST_BUCKET", false),
		CreateDestBucket: c.MayBool("CREATE_DEST_BUCKET", false),
	}
}

// CheckDestination runs the opt-in startup check of the destination bucket
func CheckDestination(ctx context.Context, opt Options) error {
	if !opt.CheckDestBucket && !opt.CreateDestBucket {
		return nil
	}
	dest := preprocessmod.FromConfig(opt.Config).Service.DestBucket
	if err := objstore.CheckBucket(ctx, opt.Objects, dest, opt.CreateDestBucket); err != nil {
		return err
	}
	if opt.Logger != nil {
		opt.Logger.Info().Str("bucket", dest).Msg("destination bucket ready")
	}
	return nil
}

// Mount mounts the receiver onto the given router and returns the modules it built
func Mount(r phttp.Router, opt Options) []module.Module {
	// chi wants root middleware before any route
	r.Use(middleware.Heartbeat("/health"))

	deps := modkit.Deps{
		Cfg:     opt.Config,
		Objects: opt.Objects,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	stack := httpkit.StackOptions{
		Timeout:     opt.Timeout,
		CORSOrigins: opt.CORSOrigins,
		SlowRequest: opt.SlowRequest,
	}
	if opt.Metrics != nil {
		deps.Metrics = opt.Metrics
		stack.Metrics = middleware.NewHTTPMetrics(opt.Metrics, "csvprep")
		r.Handle("/metrics", promhttp.HandlerFor(opt.Metrics, promhttp.HandlerOpts{Registry: opt.Metrics}))
	}

	httpkit.Get(r, "/version", func(*http.Request) (any, error) {
		return version.Info("csvprep-webhook"), nil
	})
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	mods := []module.Module{
		preprocessmod.New(deps),
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	return mods
}
