// Package modkit provides module wiring and core deps
package modkit

import (
	"csvprep/internal/adapters/objstore"
	"csvprep/internal/modkit/repokit"
	"csvprep/internal/platform/config"
	"csvprep/internal/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// PG is the run ledger database, nil when the ledger is disabled
	PG repokit.TxRunner

	// Objects is the long lived object store client built in main
	Objects objstore.Store

	// Metrics is where modules register collectors, nil disables metrics
	Metrics prometheus.Registerer
}

// HasLedger reports whether a ledger database is wired
func (d Deps) HasLedger() bool { return d.PG != nil }

// Registerer returns Metrics or a throwaway registry so modules never nil check
func (d Deps) Registerer() prometheus.Registerer {
	if d.Metrics == nil {
		return prometheus.NewRegistry()
	}
	return d.Metrics
}
