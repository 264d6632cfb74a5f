package csvclean

import "math"

// DefaultSteps is the historical chunk count
const DefaultSteps = 3

// ProgressFunc observes chunk progress; percent is round(step/total*100) with step counted from 1
type ProgressFunc func(step, total, percent int)

// Span is a half-open row range [Start, End)
type Span struct{ Start, End int }

// Stats summarizes a cleaning pass
type Stats struct {
	RowsIn     int `json:"rows_in"`
	RowsOut    int `json:"rows_out"`
	Duplicates int `json:"duplicates"`
}

// Spans splits n rows into total contiguous ranges of n/total rows
// the last range runs to n so remainder rows are never dropped
func Spans(n, total int) []Span {
	if total < 1 {
		total = 1
	}
	step := n / total
	out := make([]Span, total)
	for i := range total {
		out[i] = Span{Start: i * step, End: (i + 1) * step}
	}
	out[total-1].End = n
	return out
}

// Percent is the progress after finishing step (1-based) of total
func Percent(step, total int) int {
	if total < 1 {
		return 100
	}
	return int(math.Round(float64(step) / float64(total) * 100))
}

// CleanChunks dedups then normalizes data rows chunk by chunk, in order
// rows must not include the header; progress may be nil
func CleanChunks(rows [][]string, total int, c *Cleaner, progress ProgressFunc) ([][]string, Stats) {
	if c == nil {
		c = defaultCleaner
	}
	spans := Spans(len(rows), total)
	d := NewDeduper()
	out := make([][]string, 0, len(rows))

	for i, sp := range spans {
		for _, row := range d.Keep(rows[sp.Start:sp.End]) {
			out = append(out, c.Row(row))
		}
		if progress != nil {
			progress(i+1, len(spans), Percent(i+1, len(spans)))
		}
	}
	return out, Stats{RowsIn: len(rows), RowsOut: len(out), Duplicates: len(rows) - len(out)}
}
