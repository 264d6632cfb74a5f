package module

import (
	"testing"

	phttp "csvprep/internal/platform/net/http"
)

// stubModule records MountRoutes and returns a configurable ports value
type stubModule struct {
	mounted *bool
	ports   any
}

func (s *stubModule) MountRoutes(_ phttp.Router) {
	if s.mounted != nil {
		*s.mounted = true
	}
}

func (s *stubModule) Ports() any   { return s.ports }
func (s *stubModule) Name() string { return "stub" }

var _ Module = (*stubModule)(nil)

func TestModule_MountRoutes(t *testing.T) {
	called := false
	m := &stubModule{mounted: &called}
	m.MountRoutes(nil)
	if !called {
		t.Fatalf("expected MountRoutes to set called")
	}
}
