// Package domain holds the preprocess types shared by service, repo and transport
package domain

import (
	"time"

	"csvprep/internal/core/csvclean"
)

// Kind classifies why a run failed; empty on success
type Kind string

// Failure kinds surfaced on Result
const (
	KindNone    Kind = ""
	KindTrigger Kind = "trigger"
	KindParse   Kind = "parse"
	KindRead    Kind = "read"
	KindWrite   Kind = "write"
)

// Kinds lists every failure kind, used to pre-register metric labels
var Kinds = []Kind{KindTrigger, KindParse, KindRead, KindWrite}

// Label is the metrics label for k
func (k Kind) Label() string {
	if k == KindNone {
		return "ok"
	}
	return string(k)
}

// Trigger names the source object of one run
type Trigger struct {
	Bucket string `json:"bucket" validate:"required,bucket"`
	Key    string `json:"key" validate:"required,objkey"`
}

// Stats describes what a run did to the table
type Stats struct {
	csvclean.Stats
	Columns  int `json:"columns"`
	BytesIn  int `json:"bytes_in"`
	BytesOut int `json:"bytes_out"`
}

// Result is the uniform outcome of a run: 200 with a confirmation or 500 with the error text
type Result struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
	Kind       Kind   `json:"kind,omitempty"`
	Retryable  bool   `json:"retryable"`
	RunID      string `json:"run_id"`
	Source     string `json:"source,omitempty"`
	Dest       string `json:"dest,omitempty"`
	Stats      *Stats `json:"stats,omitempty"`

	// Err is the classified cause, kept for transports that map it to a status
	Err error `json:"-"`
}

// OK reports a successful run
func (r Result) OK() bool { return r.StatusCode == 200 }

// Run statuses stored in the ledger
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Run is one ledger record
type Run struct {
	ID         string     `json:"id"`
	Bucket     string     `json:"bucket"`
	Key        string     `json:"key"`
	DestBucket string     `json:"dest_bucket"`
	DestKey    string     `json:"dest_key"`
	Status     string     `json:"status"`
	Kind       Kind       `json:"kind,omitempty"`
	Error      string     `json:"error,omitempty"`
	Stats      Stats      `json:"stats"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
