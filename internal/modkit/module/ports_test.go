package module

import (
	"strings"
	"testing"

	"csvprep/internal/modkit/httpkit"
)

// RunnerPort is a tiny test interface that Ports() payloads can implement
type RunnerPort interface {
	Run() int
}

type runnerImpl struct{ v int }

func (f runnerImpl) Run() int { return f.v }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string               { return m.name }
func (m fakeModule) Ports() PortSet             { return m.ports }
func (m fakeModule) MountRoutes(httpkit.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Runner RunnerPort
		Limit  int
	}
	type hidden struct {
		runner RunnerPort
	}

	cases := []struct {
		name  string
		ports any
		want  int
		ok    bool
	}{
		{name: "nil ports", ports: nil},
		{name: "direct", ports: RunnerPort(runnerImpl{v: 42}), want: 42, ok: true},
		{name: "exported field", ports: bundle{Runner: runnerImpl{v: 7}, Limit: 1}, want: 7, ok: true},
		{name: "unexported field ignored", ports: hidden{runner: runnerImpl{v: 1}}},
		{name: "unrelated", ports: 123},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[RunnerPort](fakeModule{name: tc.name, ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got.Run() != tc.want {
				t.Fatalf("Run() = %d, want %d", got.Run(), tc.want)
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	got := MustPortsOf[RunnerPort](fakeModule{name: "ok", ports: RunnerPort(runnerImpl{v: 99})})
	if got.Run() != 99 {
		t.Fatalf("Run() = %d, want 99", got.Run())
	}

	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, "preprocess") || !strings.Contains(msg, "requested port not found") {
			t.Fatalf("panic message should include module name and hint, got %v", r)
		}
	}()
	_ = MustPortsOf[RunnerPort](fakeModule{name: "preprocess"})
}
