package domain

import (
	"context"

	"csvprep/internal/adapters/objstore"
)

// ObjectStore is the storage seam the service reads from and writes to
type ObjectStore = objstore.Store

// RunnerPort is consumed by handlers, the CLI and other modules
type RunnerPort interface {
	Handle(ctx context.Context, t Trigger) Result
	HandleEvent(ctx context.Context, payload []byte) Result
}

// LedgerPort reads back recorded runs
type LedgerPort interface {
	// EnsureLedger creates the run table; a no-op when the ledger is off
	EnsureLedger(ctx context.Context) error
	Run(ctx context.Context, id string) (Run, error)
}
