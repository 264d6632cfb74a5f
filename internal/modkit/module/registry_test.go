package module

import (
	"sync"
	"testing"
)

// registry tests share package state and do not run in parallel

type portSet struct {
	Name string
	ID   int
}

func TestRegistry_RegisterAndPortsAs(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	want := portSet{Name: "preprocess", ID: 1}
	Register("preprocess", want)

	got, ok := PortsAs[portSet]("preprocess")
	if !ok || got != want {
		t.Fatalf("PortsAs = %v, %v", got, ok)
	}
	if _, ok := PortsAs[int]("preprocess"); ok {
		t.Fatal("expected ok=false for type mismatch")
	}
	if got, ok := PortsAs[portSet]("missing"); ok || got != (portSet{}) {
		t.Fatalf("missing name = %v, %v", got, ok)
	}
}

func TestRegistry_OverwriteAndReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("svc", portSet{Name: "a", ID: 1})
	Register("svc", portSet{Name: "b", ID: 2})
	if got, _ := PortsAs[portSet]("svc"); got.Name != "b" {
		t.Fatalf("expected overwritten value got=%v", got)
	}
	Reset()
	if _, ok := PortsAs[portSet]("svc"); ok {
		t.Fatal("expected ok=false after reset")
	}
}

func TestRegistry_ConcurrentRegisterAndRead(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range n {
			Register("concurrent", portSet{Name: "k", ID: i})
		}
	}()
	go func() {
		defer wg.Done()
		for range n {
			_, _ = PortsAs[portSet]("concurrent")
		}
	}()
	wg.Wait()

	if got, ok := PortsAs[portSet]("concurrent"); !ok || got.Name != "k" {
		t.Fatalf("final value = %v, %v", got, ok)
	}
}
