// Package csvclean cleans tabular text: header normalization, row deduplication,
// null coercion and punctuation stripping, applied over contiguous chunks
package csvclean

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Options tunes cell normalization
type Options struct {
	// ZeroAsEmpty treats numeric zero ("0", "0.0", "-0", "000") as an empty value
	ZeroAsEmpty bool
	// NullTokens are cell texts treated as empty, matched exactly (e.g. "NULL", "None")
	NullTokens []string
}

// DefaultOptions matches the historical output: zero is empty, no extra null tokens
func DefaultOptions() Options { return Options{ZeroAsEmpty: true} }

// NormalizeHeader strips punctuation from each header cell
// order and length are preserved; no dedup or null handling
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = StripPunct(h)
	}
	return out
}

// Cleaner applies null coercion then punctuation stripping to values
// it is immutable after construction and safe for concurrent use
type Cleaner struct {
	zeroAsEmpty bool
	nulls       map[string]struct{}
}

// NewCleaner builds a Cleaner from opt
func NewCleaner(opt Options) *Cleaner {
	c := &Cleaner{zeroAsEmpty: opt.ZeroAsEmpty, nulls: make(map[string]struct{}, len(opt.NullTokens))}
	for _, t := range opt.NullTokens {
		c.nulls[t] = struct{}{}
	}
	return c
}

// Cell normalizes one CSV text cell
func (c *Cleaner) Cell(s string) string {
	if c.emptyText(s) {
		return ""
	}
	return StripPunct(s)
}

// Row normalizes every cell of row into a new slice
func (c *Cleaner) Row(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = c.Cell(v)
	}
	return out
}

// Value normalizes a value of any primitive type
// nil, false and typed numeric zero always become ""; text goes through Cell, so
// ZeroAsEmpty only governs zero spelled as text
func (c *Cleaner) Value(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return c.Cell(x)
	case []byte:
		return c.Cell(string(x))
	case bool:
		if !x {
			return ""
		}
	case fmt.Stringer:
		return c.Cell(x.String())
	}

	if f, err := cast.ToFloat64E(v); err == nil && f == 0 {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	return StripPunct(s)
}

func (c *Cleaner) emptyText(s string) bool {
	if s == "" {
		return true
	}
	if _, ok := c.nulls[s]; ok {
		return true
	}
	return c.zeroAsEmpty && numericZero(s)
}

// numericZero reports whether s is a decimal spelling of zero
func numericZero(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	// ParseFloat also takes "inf", hex and underscores; only plain decimals count here
	for _, r := range s {
		if !strings.ContainsRune("0123456789.+-eE", r) {
			return false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == 0
}

// NormalizeValue normalizes v with the default options
func NormalizeValue(v any) string { return defaultCleaner.Value(v) }

var defaultCleaner = NewCleaner(DefaultOptions())
