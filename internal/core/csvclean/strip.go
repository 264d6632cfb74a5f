package csvclean

import (
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// stripPool holds transformers that drop every rune that is neither a word rune nor whitespace
var stripPool = sync.Pool{
	New: func() any { return runes.Remove(runes.Predicate(stripped)) },
}

// isWord matches letters, numbers (any category) and underscore
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpace is unicode.IsSpace plus the file, group, record and unit separators (U+001C..U+001F)
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1C && r <= 0x1F)
}

func stripped(r rune) bool { return !isWord(r) && !isSpace(r) }

// StripPunct removes punctuation and symbols, keeping word runes and whitespace
// e.g. "O'Brien #2" -> "OBrien 2"
func StripPunct(s string) string {
	if s == "" {
		return s
	}

	// fast path: nothing to remove
	clean := true
	for _, r := range s {
		if stripped(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	tr := stripPool.Get().(transform.Transformer)
	out, _, _ := transform.String(tr, s)
	tr.Reset()
	stripPool.Put(tr)
	return out
}
