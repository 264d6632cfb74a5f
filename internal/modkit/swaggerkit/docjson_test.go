package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	kit "csvprep/internal/platform/testkit"
)

func getDoc(t *testing.T) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, spec
}

func TestServeDocJSON_RegisteredDoc(t *testing.T) {
	rec, spec := getDoc(t)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	kit.MustEqual(t, spec["openapi"].(string), "3.0.3", "openapi")

	servers := spec["servers"].([]any)
	kit.MustEqual(t, servers[0].(map[string]any)["url"].(string), "/api/v1", "server url")

	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/events", "/preprocess", "/runs/{id}"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
	resps := paths["/preprocess"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	for _, code := range []string{"400", "500"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("default %s not injected", code)
		}
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}
}

func TestServeDocJSON_TitleSuffixAndMutators(t *testing.T) {
	kit.Serial(t)
	t.Setenv("CSVPREP_DOCS_TITLE_SUFFIX", "(staging)")
	kit.Swap(t, &mutators, []SpecMutator{func(spec map[string]any) { spec["x-owner"] = "data-platform" }})

	_, spec := getDoc(t)
	info := spec["info"].(map[string]any)
	kit.MustEqual(t, info["title"].(string), "csvprep API (staging)", "title")
	kit.MustEqual(t, spec["x-owner"].(string), "data-platform", "mutator")
}

func TestServeDocJSON_InvalidDoc(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &docReader, func() string { return "{not json" })

	rec, _ := getDoc(t)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMount_Disabled(t *testing.T) {
	t.Parallel()
	// nil router is never touched when disabled
	kit.MustNotPanic(t, func() { Mount(nil, false) })
}
