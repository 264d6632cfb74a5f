package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time should be nil")
	}
	local := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))
	p := Ptr(local)
	if p == nil || !p.Equal(local) || p.Location() != time.UTC {
		t.Fatalf("Ptr = %v", p)
	}
}
