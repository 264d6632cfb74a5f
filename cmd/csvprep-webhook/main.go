// @title         csvprep API
// @version       1.0
// @description   Receives bucket notifications and stores cleaned copies of CSV objects

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/modkit/module"
	"csvprep/internal/modkit/repokit"
	"csvprep/internal/platform/config"
	"csvprep/internal/platform/logger"
	phttp "csvprep/internal/platform/net/http"
	"csvprep/internal/platform/store"

	"csvprep/internal/services/preprocess/domain"
	preprocessmod "csvprep/internal/services/preprocess/module"
	"csvprep/internal/services/webhook"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// service-scoped config for HTTP etc (CSVPREP_*)
	root := config.New()
	apiCfg := root.Prefix("CSVPREP_")

	// bring up logging early
	opt := logger.FromEnv()
	if opt.Component == "" {
		opt.Component = "webhook"
	}
	logger.Init(opt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// long lived object store client shared by every request
	objects, err := objstore.Open(ctx, objstore.ConfigFromEnv(root))
	if err != nil {
		l.Panic().Err(err).Msg("objstore.Open failed")
	}
	defer func() {
		if err := objects.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close objstore")
		}
	}()

	// the run ledger is optional; postgres is only opened when it is on
	ledger := preprocessmod.FromConfig(root).Ledger
	st, err := store.Open(ctx, store.ConfigFromEnv(root, "csvprep-webhook", ledger), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if ledger {
		repokit.MustGuard(ctx, st)
	}

	reg := prometheus.NewRegistry()
	if apiCfg.MayBool("METRICS", true) {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	} else {
		reg = nil
	}

	// http server (reads CSVPREP_API_PORT / CSVPREP_TIMEOUT)
	srv := phttp.NewServer(apiCfg)

	wo := webhook.OptionsFromConfig(root)
	wo.Store = st
	wo.Objects = objects
	wo.Logger = l
	wo.Metrics = reg
	if err := webhook.CheckDestination(ctx, wo); err != nil {
		l.Panic().Err(err).Msg("destination bucket")
	}
	mods := webhook.Mount(srv.Router(), wo)

	for _, m := range mods {
		if lp, ok := module.PortsOf[domain.LedgerPort](m); ok {
			if err := lp.EnsureLedger(ctx); err != nil {
				l.Panic().Err(err).Msg("ledger schema")
			}
		}
	}

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
