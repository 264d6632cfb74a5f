package module

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/core/table"
	"csvprep/internal/modkit"
	"csvprep/internal/modkit/httpkit"
	pmod "csvprep/internal/modkit/module"
	"csvprep/internal/platform/config"
	phttp "csvprep/internal/platform/net/http"
	kit "csvprep/internal/platform/testkit"
	"csvprep/internal/services/preprocess/domain"

	"github.com/go-chi/chi/v5"
)

func TestFromConfig_Defaults(t *testing.T) {
	kit.Serial(t)

	o := FromConfig(config.New().Prefix("NOPE_"))
	kit.MustEqual(t, o.Service.DestBucket, "updatecsv4", "dest bucket")
	kit.MustEqual(t, o.Service.DestPrefix, "preprocessed/", "dest prefix")
	kit.MustEqual(t, o.Service.TotalSteps, 3, "steps")
	kit.MustEqual(t, o.Service.Quoting, table.QuotingStandard, "quoting")
	kit.MustEqual(t, o.Service.MaxObjectBytes, int64(256<<20), "max bytes")
	if !o.Service.Clean.ZeroAsEmpty || !o.Service.DecodeKeys || o.Ledger {
		t.Fatalf("options = %+v", o)
	}
}

func TestFromConfig_Env(t *testing.T) {
	kit.Serial(t)
	t.Setenv("CSVPREP_DEST_BUCKET", "clean-drops")
	t.Setenv("CSVPREP_TOTAL_STEPS", "5")
	t.Setenv("CSVPREP_ZERO_AS_EMPTY", "false")
	t.Setenv("CSVPREP_NULL_TOKENS", "NULL,None")
	t.Setenv("CSVPREP_OUTPUT_QUOTING", "legacy")
	t.Setenv("CSVPREP_LEDGER", "true")

	o := FromConfig(config.New())
	kit.MustEqual(t, o.Service.DestBucket, "clean-drops", "dest bucket")
	kit.MustEqual(t, o.Service.TotalSteps, 5, "steps")
	kit.MustEqual(t, o.Service.Quoting, table.QuotingLegacy, "quoting")
	if o.Service.Clean.ZeroAsEmpty || len(o.Service.Clean.NullTokens) != 2 || !o.Ledger {
		t.Fatalf("options = %+v", o)
	}

	t.Setenv("CSVPREP_OUTPUT_QUOTING", "fancy")
	kit.MustPanic(t, func() { _ = FromConfig(config.New()) })
}

func TestNew_PortsAndInlineRoutes(t *testing.T) {
	kit.Serial(t)

	mem := objstore.NewMem("raw-drops")
	mem.Seed("raw-drops", "in.csv", []byte("a\n1\n"))
	m := New(modkit.Deps{Cfg: config.New(), Objects: mem})
	kit.MustEqual(t, m.Name(), "preprocess", "name")

	runner := pmod.MustPortsOf[domain.RunnerPort](m)
	if res := runner.Handle(t.Context(), domain.Trigger{Bucket: "raw-drops", Key: "in.csv"}); !res.OK() {
		t.Fatalf("result = %+v", res)
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preprocess", strings.NewReader(`{"bucket":"raw-drops","key":"in.csv"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNew_PrefixMiddlewareAndRegister(t *testing.T) {
	kit.Serial(t)

	var hits int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			next.ServeHTTP(w, r)
		})
	}
	m := New(
		modkit.Deps{Cfg: config.New(), Objects: objstore.NewMem()},
		modkit.WithPrefix("/csv"),
		modkit.WithMiddlewares(mw),
		modkit.WithRegister(func(r httpkit.Router) {
			httpkit.Get(r, "/ping", func(*http.Request) (any, error) { return "pong", nil })
		}),
	)

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	for _, path := range []string{"/csv/ping", "/csv/runs/x"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if path == "/csv/ping" && rec.Code != http.StatusOK {
			t.Fatalf("%s = %d", path, rec.Code)
		}
	}
	kit.MustEqual(t, hits, 2, "middleware hits")
	kit.MustEqual(t, m.(*Module).Prefix(), "/csv", "prefix")
}
