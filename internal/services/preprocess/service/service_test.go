package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/core/table"
	perr "csvprep/internal/platform/errors"
	kit "csvprep/internal/platform/testkit"
	"csvprep/internal/services/preprocess/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const sample = "A,B!\nhello,0\nhello,0\nworld,\n"

func newSvc(t *testing.T, mut func(*Config), opts ...Option) (*Service, *objstore.Mem) {
	t.Helper()
	mem := objstore.NewMem("raw-drops", "updatecsv4")
	cfg := DefaultConfig()
	if mut != nil {
		mut(&cfg)
	}
	return New(mem, cfg, opts...), mem
}

func TestHandle_EndToEnd(t *testing.T) {
	t.Parallel()

	svc, mem := newSvc(t, nil)
	mem.Seed("raw-drops", "2024/sales.csv", []byte(sample))

	res := svc.Handle(context.Background(), domain.Trigger{Bucket: "raw-drops", Key: "2024/sales.csv"})
	if !res.OK() || res.Kind != domain.KindNone || res.Err != nil {
		t.Fatalf("result = %+v", res)
	}
	if res.RunID == "" {
		t.Fatalf("missing run id")
	}
	kit.MustContain(t, res.Body, "updatecsv4/preprocessed/2024/sales.csv")

	body, ct, ok := mem.Object("updatecsv4", "preprocessed/2024/sales.csv")
	if !ok {
		t.Fatalf("destination not written; keys=%v", mem.Keys("updatecsv4"))
	}
	kit.MustEqual(t, string(body), "A,B\nhello,\nworld,\n", "output")
	kit.MustEqual(t, ct, objstore.ContentTypeCSV, "content type")

	st := res.Stats
	if st == nil || st.RowsIn != 3 || st.RowsOut != 2 || st.Duplicates != 1 || st.Columns != 2 {
		t.Fatalf("stats = %+v", st)
	}
	if st.BytesIn != len(sample) || st.BytesOut != len(body) {
		t.Fatalf("bytes = %d/%d", st.BytesIn, st.BytesOut)
	}
}

func TestHandle_LegacyQuotingAndTokens(t *testing.T) {
	t.Parallel()

	svc, mem := newSvc(t, func(c *Config) {
		c.Quoting = table.QuotingLegacy
		c.Clean.NullTokens = []string{"NULL"}
	})
	mem.Seed("raw-drops", "in.csv", []byte("id,note\n1,NULL\n2,ok!\n"))

	res := svc.Handle(context.Background(), domain.Trigger{Bucket: "raw-drops", Key: "in.csv"})
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	body, _, _ := mem.Object("updatecsv4", "preprocessed/in.csv")
	kit.MustEqual(t, string(body), "id,note\n1,\n2,ok", "legacy output")
}

func TestHandle_KeepsRemainderRows(t *testing.T) {
	t.Parallel()

	svc, mem := newSvc(t, nil)
	mem.Seed("raw-drops", "five.csv", []byte("n\n1\n2\n3\n4\n5\n"))

	res := svc.Handle(context.Background(), domain.Trigger{Bucket: "raw-drops", Key: "five.csv"})
	if !res.OK() || res.Stats.RowsOut != 5 {
		t.Fatalf("result = %+v stats=%+v", res, res.Stats)
	}
}

func TestHandle_FailureKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		trigger   domain.Trigger
		body      string
		seed      bool
		mut       func(*Config)
		getErr    error
		putErr    error
		kind      domain.Kind
		code      perr.ErrorCode
		retryable bool
		contains  string
	}{
		{
			name:    "missing bucket",
			trigger: domain.Trigger{Key: "in.csv"},
			kind:    domain.KindTrigger, code: perr.ErrorCodeValidation,
		},
		{
			name:    "own output",
			trigger: domain.Trigger{Bucket: "updatecsv4", Key: "preprocessed/in.csv"},
			kind:    domain.KindTrigger, code: perr.ErrorCodeValidation, contains: "output prefix",
		},
		{
			name:    "missing object",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "nope.csv"},
			kind:    domain.KindRead, code: perr.ErrorCodeNotFound,
		},
		{
			name:    "backend down",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}, body: sample, seed: true,
			getErr: perr.Unavailablef("connection reset"),
			kind:   domain.KindRead, code: perr.ErrorCodeUnavailable, retryable: true,
		},
		{
			name:    "ragged rows",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}, body: "a,b\n1\n", seed: true,
			kind: domain.KindParse, code: perr.ErrorCodeInvalidArgument, contains: "malformed CSV",
		},
		{
			name:    "empty object",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}, body: "", seed: true,
			kind: domain.KindParse, code: perr.ErrorCodeInvalidArgument, contains: "empty CSV",
		},
		{
			name:    "too large",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}, body: sample, seed: true,
			mut:  func(c *Config) { c.MaxObjectBytes = 4 },
			kind: domain.KindParse, code: perr.ErrorCodeInvalidArgument,
		},
		{
			name:    "store down",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}, body: sample, seed: true,
			putErr: perr.Unavailablef("503 slow down"),
			kind:   domain.KindWrite, code: perr.ErrorCodeUnavailable, retryable: true,
		},
		{
			name:    "store foreign error",
			trigger: domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}, body: sample, seed: true,
			putErr: errors.New("socket closed"),
			kind:   domain.KindWrite, code: perr.ErrorCodeUnavailable, retryable: true, contains: "socket closed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, mem := newSvc(t, tc.mut)
			if tc.seed {
				mem.Seed(tc.trigger.Bucket, tc.trigger.Key, []byte(tc.body))
			}
			mem.FailGet(tc.getErr)
			mem.FailPut(tc.putErr)

			res := svc.Handle(context.Background(), tc.trigger)
			if res.StatusCode != 500 || res.OK() {
				t.Fatalf("status = %d", res.StatusCode)
			}
			kit.MustEqual(t, res.Kind, tc.kind, "kind")
			kit.MustEqual(t, perr.CodeOf(res.Err), tc.code, "code")
			kit.MustEqual(t, res.Retryable, tc.retryable, "retryable")
			if !strings.HasPrefix(res.Body, "error: ") {
				t.Fatalf("body = %q", res.Body)
			}
			if tc.contains != "" {
				kit.MustContain(t, res.Body, tc.contains)
			}
			if keys := mem.Keys("updatecsv4"); len(keys) != 0 {
				t.Fatalf("failed run wrote %v", keys)
			}
		})
	}
}

func TestHandle_CanceledContextIsRetryableRead(t *testing.T) {
	t.Parallel()

	svc, mem := newSvc(t, nil)
	mem.Seed("raw-drops", "in.csv", []byte(sample))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Handle(ctx, domain.Trigger{Bucket: "raw-drops", Key: "in.csv"})
	if res.Kind != domain.KindRead || !res.Retryable {
		t.Fatalf("result = %+v", res)
	}
}

// panicStore blows up on read to exercise recovery
type panicStore struct{ *objstore.Mem }

func (panicStore) Get(context.Context, string, string, int64) ([]byte, error) { panic("driver bug") }

func TestHandle_RecoversPanics(t *testing.T) {
	t.Parallel()

	svc := New(panicStore{objstore.NewMem()}, DefaultConfig())
	var res domain.Result
	kit.MustNotPanic(t, func() {
		res = svc.Handle(context.Background(), domain.Trigger{Bucket: "raw-drops", Key: "in.csv"})
	})
	if res.StatusCode != 500 || res.Kind != domain.KindParse || res.Retryable {
		t.Fatalf("result = %+v", res)
	}
	kit.MustEqual(t, perr.CodeOf(res.Err), perr.ErrorCodePanic, "code")
	kit.MustContain(t, res.Body, "driver bug")
}

func TestHandleEvent(t *testing.T) {
	t.Parallel()

	svc, mem := newSvc(t, nil)
	mem.Seed("raw-drops", "2024/q1 sales.csv", []byte(sample))

	event := `{"Records":[{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"raw-drops"},"object":{"key":"2024/q1+sales.csv"}}}]}`
	res := svc.HandleEvent(context.Background(), []byte(event))
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if _, _, ok := mem.Object("updatecsv4", "preprocessed/2024/q1 sales.csv"); !ok {
		t.Fatalf("decoded key not used; keys=%v", mem.Keys("updatecsv4"))
	}

	bad := svc.HandleEvent(context.Background(), []byte(`{"hello":"world"}`))
	if bad.Kind != domain.KindTrigger || bad.StatusCode != 500 || bad.RunID == "" {
		t.Fatalf("bad event result = %+v", bad)
	}
}

func TestPreprocess_NoStorage(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t, func(c *Config) { c.Clean.ZeroAsEmpty = false })
	out, st, err := svc.Preprocess(context.Background(), []byte("\xEF\xBB\xBFqty,name\n0,\"a, b\"\n"))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	kit.MustEqual(t, string(out), "qty,name\n0,a b\n", "output")
	kit.MustEqual(t, st.Columns, 2, "columns")
}

func TestPreprocess_StrayQuotes(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t, nil)
	out, _, err := svc.Preprocess(context.Background(), []byte("item,size\npipe,12\" long\nO\"Neil,3\n"))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	kit.MustEqual(t, string(out), "item,size\npipe,12 long\nONeil,3\n", "output")
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	svc, mem := newSvc(t, nil, WithMetrics(reg))
	mem.Seed("raw-drops", "in.csv", []byte(sample))

	svc.Handle(context.Background(), domain.Trigger{Bucket: "raw-drops", Key: "in.csv"})
	svc.Handle(context.Background(), domain.Trigger{Bucket: "raw-drops", Key: "gone.csv"})

	if got := testutil.ToFloat64(svc.metrics.runs.WithLabelValues("ok")); got != 1 {
		t.Fatalf("ok runs = %v", got)
	}
	if got := testutil.ToFloat64(svc.metrics.runs.WithLabelValues("read")); got != 1 {
		t.Fatalf("read failures = %v", got)
	}
	if got := testutil.ToFloat64(svc.metrics.rows.WithLabelValues("duplicate")); got != 1 {
		t.Fatalf("duplicates = %v", got)
	}

	// a second service on the same registry shares collectors
	kit.MustNotPanic(t, func() { _ = New(mem, DefaultConfig(), WithMetrics(reg)) })
}
