package service

import (
	"context"

	perr "csvprep/internal/platform/errors"
	"csvprep/internal/platform/logger"
	pstrings "csvprep/internal/platform/strings"
	ptime "csvprep/internal/platform/time"

	"csvprep/internal/services/preprocess/domain"

	"github.com/google/uuid"
)

// maxLedgerError bounds the stored error text
const maxLedgerError = 2048

// EnsureLedger creates the run table; a no-op when the ledger is off
func (s *Service) EnsureLedger(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.binder.Bind(s.db).EnsureSchema(ctx)
}

// Run returns a recorded run by id
func (s *Service) Run(ctx context.Context, id string) (domain.Run, error) {
	if s.db == nil {
		return domain.Run{}, perr.NotFoundf("run ledger is disabled")
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.Run{}, perr.NotFoundf("run %s not found", id)
	}
	return s.binder.Bind(s.db).Get(ctx, id)
}

// recordStart inserts a running row; ledger failures never fail the run
func (s *Service) recordStart(r *runState) {
	if s.db == nil {
		return
	}
	err := s.binder.Bind(s.db).Insert(r.ctx, domain.Run{
		ID:         r.id,
		Bucket:     r.trigger.Bucket,
		Key:        r.trigger.Key,
		DestBucket: s.cfg.DestBucket,
		DestKey:    r.destKey,
		Status:     domain.RunRunning,
		StartedAt:  r.started,
	})
	if err != nil {
		logger.C(r.ctx).Warn().Err(err).Msg("ledger insert failed")
		return
	}
	r.recorded = true
}

func (s *Service) recordFinish(r *runState, res domain.Result) {
	if s.db == nil || !r.recorded {
		return
	}
	run := domain.Run{
		ID:         r.id,
		Status:     domain.RunSucceeded,
		Kind:       res.Kind,
		FinishedAt: ptime.Ptr(s.now()),
	}
	if !res.OK() {
		run.Status = domain.RunFailed
		run.Error = pstrings.Truncate(res.Body, maxLedgerError)
	}
	if res.Stats != nil {
		run.Stats = *res.Stats
	}
	// a canceled request still closes its ledger row
	ctx := context.WithoutCancel(r.ctx)
	if err := s.binder.Bind(s.db).Finish(ctx, run); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("ledger finish failed")
	}
}
