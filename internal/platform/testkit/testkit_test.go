package testkit

import (
	"os"
	"testing"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	out := "A,B\nhello,\nworld,\n"
	MustContain(t, out, "hello,")
	MustNotContain(t, out, "hello,0")
}

func TestMustEqual(t *testing.T) {
	t.Parallel()
	MustEqual(t, 3, 3, "chunks")
	MustEqual(t, "text/csv", "text/csv", "content type")
}

func TestFixture(t *testing.T) {
	t.Parallel()
	p := Fixture(t, "event.json", `{"Records":[]}`)
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if string(b) != `{"Records":[]}` {
		t.Fatalf("fixture body = %q", b)
	}
}
