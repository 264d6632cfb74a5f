// Package service runs the preprocess pipeline: fetch, clean, store
package service

import (
	"context"
	"time"

	"csvprep/internal/adapters/trigger"
	"csvprep/internal/core/csvclean"
	"csvprep/internal/core/table"
	"csvprep/internal/modkit/repokit"
	"csvprep/internal/platform/logger"

	"csvprep/internal/services/preprocess/domain"
	"csvprep/internal/services/preprocess/repo"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Config controls where results go and how cells are cleaned
type Config struct {
	DestBucket     string
	DestPrefix     string
	TotalSteps     int
	Clean          csvclean.Options
	Quoting        string
	MaxObjectBytes int64
	DecodeKeys     bool
}

// DefaultConfig mirrors the env defaults
func DefaultConfig() Config {
	return Config{
		DestBucket:     "updatecsv4",
		DestPrefix:     "preprocessed/",
		TotalSteps:     csvclean.DefaultSteps,
		Clean:          csvclean.DefaultOptions(),
		Quoting:        table.QuotingStandard,
		MaxObjectBytes: 256 << 20,
		DecodeKeys:     true,
	}
}

// Service implements domain.RunnerPort and domain.LedgerPort
type Service struct {
	objects domain.ObjectStore
	cfg     Config
	cleaner *csvclean.Cleaner

	// db is nil when the ledger is off
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]

	metrics *metrics
	newID   func() string
	now     func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithLedger records every run through binder on db
func WithLedger(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) Option {
	return func(s *Service) {
		s.db = db
		s.binder = binder
	}
}

// WithMetrics registers run collectors on reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Service) { s.metrics = newMetrics(reg) }
}

// New constructs the service around a long lived object store client
func New(objects domain.ObjectStore, cfg Config, opts ...Option) *Service {
	if cfg.TotalSteps < 1 {
		cfg.TotalSteps = csvclean.DefaultSteps
	}
	if cfg.Quoting == "" {
		cfg.Quoting = table.QuotingStandard
	}
	s := &Service{
		objects: objects,
		cfg:     cfg,
		cleaner: csvclean.NewCleaner(cfg.Clean),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.NewRegistry())
	}
	return s
}

// Config returns the effective configuration
func (s *Service) Config() Config { return s.cfg }

// HandleEvent decodes a bucket notification and runs the pipeline on the object it names
func (s *Service) HandleEvent(ctx context.Context, payload []byte) domain.Result {
	ref, err := trigger.Decode(payload, trigger.Options{DecodeKeys: s.cfg.DecodeKeys})
	if err != nil {
		r := s.begin(ctx, domain.Trigger{})
		return s.finish(r.ctx, r, nil, domain.KindTrigger, err)
	}
	logger.C(ctx).Debug().Str("source", ref.Source).Str("event", ref.Event).Msg("decoded trigger")
	return s.Handle(ctx, domain.Trigger{Bucket: ref.Bucket, Key: ref.Key})
}

// Handle runs one preprocess pass for t and always returns a Result
func (s *Service) Handle(ctx context.Context, t domain.Trigger) domain.Result {
	r := s.begin(ctx, t)
	stats, kind, err := s.run(r.ctx, t, r.destKey)
	return s.finish(r.ctx, r, stats, kind, err)
}
