package httpkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "csvprep/internal/platform/net/http"
	"csvprep/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newAPI(t *testing.T, o StackOptions) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), CommonStack(o), func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
		Get(api, "/boom", func(*http.Request) (any, error) { panic("boom") })
	})
	return mux
}

func TestCommonStack_RequestIDAndEnvelope(t *testing.T) {
	t.Parallel()

	mux := newAPI(t, StackOptions{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"`) || !strings.Contains(rec.Body.String(), `"pong"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected no-cache headers")
	}
}

func TestCommonStack_PanicIsEnveloped(t *testing.T) {
	t.Parallel()

	mux := newAPI(t, StackOptions{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status_code":500`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestCommonStack_CORSAndMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	mux := newAPI(t, StackOptions{
		CORSOrigins: []string{"https://ops.example.com"},
		Metrics:     middleware.NewHTTPMetrics(reg, "csvprep"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
	n, err := testutil.GatherAndCount(reg, "csvprep_http_requests_total")
	if err != nil || n != 1 {
		t.Fatalf("request series = %d (%v), want 1", n, err)
	}
}
