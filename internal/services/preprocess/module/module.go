// Package module wires the preprocess service into HTTP via modkit
package module

import (
	"net/http"

	"csvprep/internal/modkit"
	"csvprep/internal/modkit/httpkit"
	"csvprep/internal/platform/strings"

	"csvprep/internal/services/preprocess/domain"
	preprocesshttp "csvprep/internal/services/preprocess/http"
	"csvprep/internal/services/preprocess/repo"
	"csvprep/internal/services/preprocess/service"
)

// Ports exposes the runner and ledger for the CLI and cross-module lookups
type Ports struct {
	Runner domain.RunnerPort
	Ledger domain.LedgerPort
}

// Module implements the preprocess module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	register func(httpkit.Router)

	svc *service.Service
}

// New constructs the preprocess module; the ledger is used only when enabled and a database is wired
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("preprocess")}, opts...)...)
	o := FromConfig(deps.Cfg)

	sopts := []service.Option{service.WithMetrics(deps.Registerer())}
	if o.Ledger && deps.HasLedger() {
		sopts = append(sopts, service.WithLedger(deps.PG, repo.NewPG()))
	}
	svc := service.New(deps.Objects, o.Service, sopts...)

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{Runner: svc, Ledger: svc}
	if p, ok := b.Ports.(Ports); ok {
		m.ports = p
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		preprocesshttp.Register(r, m.ports.Runner, m.ports.Ledger, o.MaxEventBytes)
		external(r)
	}
	return m
}

// MountRoutes mounts the module routes on the given router
// without a prefix the routes sit directly on r inside a group
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.prefix == "" {
		r.Group(func(rr httpkit.Router) {
			if len(m.mws) > 0 {
				rr.Use(m.mws...)
			}
			m.register(rr)
		})
		return
	}
	modkit.Mount(r, m.Prefix(), m.mws, m.register)
}

// Name is the module name
func (m *Module) Name() string { return m.name }

// Prefix is the module route prefix, empty when mounted inline
func (m *Module) Prefix() string {
	if m.prefix == "" {
		return ""
	}
	return strings.MustPrefix(m.prefix)
}

// Middlewares is the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
