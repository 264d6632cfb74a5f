// Package strings provides small string helpers shared by platform packages
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes and asserts a root path like /api/v1
// ensures a single leading slash and no trailing slash
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// JoinKey joins an object key prefix and a key with exactly one slash between them.
// An empty prefix returns key unchanged
func JoinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return std.TrimRight(prefix, "/") + "/" + std.TrimLeft(key, "/")
}

// Truncate cuts s to at most n bytes on a rune boundary, appending "..." when cut
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && (s[n]&0xC0) == 0x80 {
		n--
	}
	return s[:n] + "..."
}
