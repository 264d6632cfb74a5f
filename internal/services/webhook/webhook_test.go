package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"csvprep/internal/adapters/objstore"
	"csvprep/internal/modkit/module"
	"csvprep/internal/platform/config"
	phttp "csvprep/internal/platform/net/http"
	kit "csvprep/internal/platform/testkit"

	perr "csvprep/internal/platform/errors"
	preprocessmod "csvprep/internal/services/preprocess/module"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

func newReceiver(t *testing.T, opt Options) (*chi.Mux, *objstore.Mem) {
	t.Helper()
	kit.Serial(t)
	t.Cleanup(module.Reset)

	mem := objstore.NewMem("raw-drops", "updatecsv4")
	mem.Seed("raw-drops", "in.csv", []byte("A,B!\nhello,0\nhello,0\nworld,\n"))
	opt.Config = config.New()
	opt.Objects = mem

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), opt)
	return mux, mem
}

func serve(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestMount_EventsEndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	mux, mem := newReceiver(t, Options{Metrics: reg})

	event := `{"Records":[{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"raw-drops"},"object":{"key":"in.csv"}}}]}`
	rec := serve(mux, http.MethodPost, "/api/v1/events", event)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	kit.MustContain(t, rec.Body.String(), `"request_id":"`)
	if _, _, ok := mem.Object("updatecsv4", "preprocessed/in.csv"); !ok {
		t.Fatalf("destination missing")
	}

	metrics := serve(mux, http.MethodGet, "/metrics", "").Body.String()
	kit.MustContain(t, metrics, `csvprep_runs_total{kind="ok"} 1`)
	kit.MustContain(t, metrics, `csvprep_http_requests_total{method="POST",route="/api/v1/events",status="200"} 1`)

	if _, ok := module.PortsAs[preprocessmod.Ports]("preprocess"); !ok {
		t.Fatalf("preprocess ports not registered")
	}
}

func TestMount_RootRoutes(t *testing.T) {
	mux, _ := newReceiver(t, Options{EnableSwagger: true})

	if rec := serve(mux, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	rec := serve(mux, http.MethodGet, "/version", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("version = %d", rec.Code)
	}
	kit.MustContain(t, rec.Body.String(), `"service":"csvprep-webhook"`)

	if rec := serve(mux, http.MethodGet, "/api/docs/doc.json", ""); rec.Code != http.StatusOK {
		t.Fatalf("docs = %d", rec.Code)
	}
	if rec := serve(mux, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("metrics should be off, got %d", rec.Code)
	}
	if rec := serve(mux, http.MethodGet, "/api/v1/runs/0b6f1c1e-3f0a-4a55-9d43-9f8a0d7b1c2e", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("runs without ledger = %d", rec.Code)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	kit.Serial(t)
	t.Setenv("CSVPREP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CSVPREP_PROFILER", "true")

	o := OptionsFromConfig(config.New())
	if len(o.CORSOrigins) != 2 || !o.EnableProfiler || !o.EnableSwagger {
		t.Fatalf("options = %+v", o)
	}
	if o.CheckDestBucket || o.CreateDestBucket {
		t.Fatalf("bucket checks should be opt-in: %+v", o)
	}
}

func TestCheckDestination(t *testing.T) {
	kit.Serial(t)
	t.Setenv("CSVPREP_DEST_BUCKET", "cleaned-out")
	ctx := context.Background()
	mem := objstore.NewMem("raw-drops")

	// off by default
	if err := CheckDestination(ctx, Options{Config: config.New(), Objects: mem}); err != nil {
		t.Fatalf("disabled check: %v", err)
	}

	err := CheckDestination(ctx, Options{Config: config.New(), Objects: mem, CheckDestBucket: true})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v (%v), want not_found", perr.CodeOf(err), err)
	}
	kit.MustContain(t, err.Error(), "cleaned-out")

	if err := CheckDestination(ctx, Options{Config: config.New(), Objects: mem, CreateDestBucket: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, _ := mem.BucketExists(ctx, "cleaned-out"); !ok {
		t.Fatalf("destination bucket not created")
	}
}
