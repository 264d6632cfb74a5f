package testkit

import (
	"sync"
	"testing"
	"time"
)

var (
	nowFn   = func() string { return "real" }
	destBkt = "updatecsv4"
)

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &nowFn, func() string { return "fake" })
		Swap(t, &destBkt, "other")
		if nowFn() != "fake" || destBkt != "other" {
			t.Fatalf("swap did not take effect")
		}
	})
	if nowFn() != "real" || destBkt != "updatecsv4" {
		t.Fatalf("swap did not restore originals: %q %q", nowFn(), destBkt)
	}
}

func TestSerial_NoInterleaving(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	rec := func(s string) { mu.Lock(); seq = append(seq, s); mu.Unlock() }

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				rec(name + "-start")
				time.Sleep(20 * time.Millisecond)
				rec(name + "-end")
			})
		}
	})

	if len(seq) != 4 {
		t.Fatalf("unexpected sequence %v", seq)
	}
	if seq[0][0] != seq[1][0] || seq[2][0] != seq[3][0] {
		t.Fatalf("expected grouped execution, got %v", seq)
	}
}
