// Package repo provides postgres access for the run ledger
package repo

import (
	"context"
	"time"

	"csvprep/internal/modkit/repokit"
	perr "csvprep/internal/platform/errors"
	"csvprep/internal/platform/store"
	"csvprep/internal/services/preprocess/domain"
)

// Repo is the persistence surface for preprocess runs
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, run domain.Run) error
	Finish(ctx context.Context, run domain.Run) error
	Get(ctx context.Context, id string) (domain.Run, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const schema = `
create table if not exists preprocess_runs (
	id          uuid primary key,
	bucket      text not null,
	object_key  text not null,
	dest_bucket text not null,
	dest_key    text not null,
	status      text not null check (status in ('running', 'succeeded', 'failed')),
	kind        text not null default '',
	error       text not null default '',
	rows_in     integer not null default 0,
	rows_out    integer not null default 0,
	duplicates  integer not null default 0,
	columns     integer not null default 0,
	bytes_in    bigint not null default 0,
	bytes_out   bigint not null default 0,
	started_at  timestamptz not null,
	finished_at timestamptz
);
create index if not exists preprocess_runs_source_idx on preprocess_runs (bucket, object_key, started_at desc);
`

func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schema); err != nil {
		return perr.FromPostgresf(err, "ensure preprocess_runs schema")
	}
	return nil
}

func (r *queries) Insert(ctx context.Context, run domain.Run) error {
	const sql = `
insert into preprocess_runs (id, bucket, object_key, dest_bucket, dest_key, status, started_at)
values ($1, $2, $3, $4, $5, $6, $7)
`
	err := store.ExecOne(ctx, r.q, sql,
		run.ID, run.Bucket, run.Key, run.DestBucket, run.DestKey, run.Status, run.StartedAt.UTC())
	if err != nil {
		if perr.IsDuplicateKey(err) {
			return perr.Wrapf(err, perr.ErrorCodeValidation, "run %s already recorded", run.ID)
		}
		return perr.FromPostgresf(err, "insert run %s", run.ID)
	}
	return nil
}

func (r *queries) Finish(ctx context.Context, run domain.Run) error {
	const sql = `
update preprocess_runs
set status = $2, kind = $3, error = $4,
    rows_in = $5, rows_out = $6, duplicates = $7, columns = $8, bytes_in = $9, bytes_out = $10,
    finished_at = $11
where id = $1
`
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	st := run.Stats
	err := store.ExecOne(ctx, r.q, sql,
		run.ID, run.Status, string(run.Kind), run.Error,
		st.RowsIn, st.RowsOut, st.Duplicates, st.Columns, st.BytesIn, st.BytesOut,
		finished)
	if err != nil {
		return perr.FromPostgresf(err, "finish run %s", run.ID)
	}
	return nil
}

func (r *queries) Get(ctx context.Context, id string) (domain.Run, error) {
	const sql = `
select id::text, bucket, object_key, dest_bucket, dest_key, status, kind, error,
       rows_in, rows_out, duplicates, columns, bytes_in, bytes_out, started_at, finished_at
from preprocess_runs
where id = $1
`
	run, err := store.One(ctx, r.q, scanRun, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Run{}, perr.NotFoundf("run %s not found", id)
		}
		return domain.Run{}, perr.FromPostgresf(err, "get run %s", id)
	}
	return run, nil
}

func scanRun(row store.Row) (domain.Run, error) {
	var (
		run  domain.Run
		kind string
	)
	err := row.Scan(
		&run.ID, &run.Bucket, &run.Key, &run.DestBucket, &run.DestKey, &run.Status, &kind, &run.Error,
		&run.Stats.RowsIn, &run.Stats.RowsOut, &run.Stats.Duplicates, &run.Stats.Columns,
		&run.Stats.BytesIn, &run.Stats.BytesOut, &run.StartedAt, &run.FinishedAt,
	)
	run.Kind = domain.Kind(kind)
	return run, err
}
