// Package time contains time related helpers
package time

import "time"

// Ptr returns a pointer to t in UTC, or nil if t is zero
// ledger columns are nullable timestamps, nil maps to NULL
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
