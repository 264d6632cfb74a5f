package csvclean

import (
	"strconv"
	"strings"
)

// Deduper drops rows equal to any row it has already kept
// the seen set spans every call, so duplicates across chunks are dropped too
type Deduper struct {
	seen map[string]struct{}
	sb   strings.Builder
}

// NewDeduper returns an empty Deduper
func NewDeduper() *Deduper { return &Deduper{seen: map[string]struct{}{}} }

// Keep returns the rows of in not seen before, first occurrence order preserved
// the returned slice shares row backing arrays with in
func (d *Deduper) Keep(in [][]string) [][]string {
	out := make([][]string, 0, len(in))
	for _, row := range in {
		k := d.key(row)
		if _, dup := d.seen[k]; dup {
			continue
		}
		d.seen[k] = struct{}{}
		out = append(out, row)
	}
	return out
}

// Seen is the number of distinct rows kept so far
func (d *Deduper) Seen() int { return len(d.seen) }

// key length-prefixes each cell so ["a,b"] and ["a","b"] never collide
func (d *Deduper) key(row []string) string {
	d.sb.Reset()
	for _, v := range row {
		d.sb.WriteString(strconv.Itoa(len(v)))
		d.sb.WriteByte(':')
		d.sb.WriteString(v)
	}
	return d.sb.String()
}

// Dedup is a one-shot Keep over rows
func Dedup(rows [][]string) [][]string { return NewDeduper().Keep(rows) }
