package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/core/csvclean"
	"csvprep/internal/core/table"
	perr "csvprep/internal/platform/errors"
	"csvprep/internal/platform/logger"
	"csvprep/internal/platform/net/http/bind"
	pstrings "csvprep/internal/platform/strings"

	"csvprep/internal/services/preprocess/domain"
)

// runState carries one invocation from begin to finish
type runState struct {
	ctx      context.Context
	id       string
	trigger  domain.Trigger
	destKey  string
	started  time.Time
	recorded bool
}

func (s *Service) begin(ctx context.Context, t domain.Trigger) *runState {
	id := s.newID()
	ctx = logger.WithRun(ctx, id)
	r := &runState{ctx: ctx, id: id, trigger: t, destKey: pstrings.JoinKey(s.cfg.DestPrefix, t.Key), started: s.now()}
	logger.C(ctx).Info().Str("bucket", t.Bucket).Str("key", t.Key).Msg("run started")
	s.recordStart(r)
	return r
}

// run executes the pipeline; a panic anywhere becomes a parse failure
func (s *Service) run(ctx context.Context, t domain.Trigger, destKey string) (st *domain.Stats, kind domain.Kind, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.C(ctx).Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("pipeline panic")
			kind, err = domain.KindParse, perr.PanicErrf("pipeline panic: %v", rec)
		}
	}()

	if err := s.validate(t); err != nil {
		return nil, domain.KindTrigger, err
	}

	body, err := s.objects.Get(ctx, t.Bucket, t.Key, s.cfg.MaxObjectBytes)
	if err != nil {
		// oversize objects are refused by the store but can never succeed
		if perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			return nil, domain.KindParse, err
		}
		return nil, domain.KindRead, coded(err, "read", "fetch %s/%s", t.Bucket, t.Key)
	}

	out, stats, err := s.Preprocess(ctx, body)
	if err != nil {
		return &stats, domain.KindParse, err
	}

	if err := s.objects.Put(ctx, s.cfg.DestBucket, destKey, out, objstore.ContentTypeCSV); err != nil {
		return &stats, domain.KindWrite, coded(err, "write", "store %s/%s", s.cfg.DestBucket, destKey)
	}
	return &stats, domain.KindNone, nil
}

// Preprocess turns raw CSV bytes into cleaned CSV bytes without touching storage
func (s *Service) Preprocess(ctx context.Context, body []byte) ([]byte, domain.Stats, error) {
	st := domain.Stats{BytesIn: len(body)}
	tbl, err := table.Parse(body)
	if err != nil {
		return nil, st, err
	}
	st.Columns = tbl.Width()

	cleaned, cs := s.Transform(ctx, tbl)
	st.Stats = cs

	out, err := cleaned.Encode(s.cfg.Quoting)
	if err != nil {
		return nil, st, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "encode CSV")
	}
	st.BytesOut = len(out)
	return out, st, nil
}

// Transform normalizes the header once, then dedups and cleans the body chunk by chunk
func (s *Service) Transform(ctx context.Context, tbl table.Table) (table.Table, csvclean.Stats) {
	log := logger.C(ctx)
	header := csvclean.NormalizeHeader(tbl.Header)
	rows, stats := csvclean.CleanChunks(tbl.Rows, s.cfg.TotalSteps, s.cleaner, func(step, total, percent int) {
		log.Debug().Int("step", step).Int("total", total).Int("percent", percent).Msg("chunk cleaned")
	})
	return table.Table{Header: header, Rows: rows}, stats
}

// validate checks the trigger shape and refuses objects this service wrote itself
func (s *Service) validate(t domain.Trigger) error {
	if err := bind.Struct(t); err != nil {
		return err
	}
	// an empty prefix writes next to the source, so every key in the bucket is output
	if t.Bucket == s.cfg.DestBucket && strings.HasPrefix(t.Key, pstrings.JoinKey(s.cfg.DestPrefix, "")) {
		return perr.WithField(
			perr.Validationf("object %s/%s is already under output prefix %q", t.Bucket, t.Key, s.cfg.DestPrefix),
			"key",
		)
	}
	return nil
}

func (s *Service) finish(ctx context.Context, r *runState, st *domain.Stats, kind domain.Kind, err error) domain.Result {
	res := domain.Result{RunID: r.id, Stats: st}
	if r.trigger.Bucket != "" {
		res.Source = location(r.trigger.Bucket, r.trigger.Key)
		res.Dest = location(s.cfg.DestBucket, r.destKey)
	}

	log := logger.C(ctx)
	if err == nil {
		res.StatusCode = 200
		res.Body = fmt.Sprintf("preprocessed %s and stored %s", res.Source, res.Dest)
		ev := log.Info().Str("dest", res.Dest)
		if st != nil {
			ev = ev.Int("rows_in", st.RowsIn).Int("rows_out", st.RowsOut).Int("duplicates", st.Duplicates)
		}
		ev.Msg("run succeeded")
	} else {
		res.StatusCode = 500
		res.Body = "error: " + err.Error()
		res.Kind = kind
		res.Retryable = perr.Retryable(err)
		res.Err = err
		log.Error().Err(err).Str("kind", string(kind)).Bool("retryable", res.Retryable).Msg("run failed")
	}

	s.metrics.observe(res, s.now().Sub(r.started))
	s.recordFinish(r, res)
	return res
}

// coded keeps coded store errors and marks foreign ones Unavailable
func coded(err error, op, format string, a ...any) error {
	if _, ok := perr.As(err); !ok {
		err = perr.Wrapf(err, perr.ErrorCodeUnavailable, format, a...)
	}
	return perr.WithOp(err, op)
}

func location(bucket, key string) string { return bucket + "/" + key }
