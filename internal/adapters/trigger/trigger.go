// Package trigger decodes bucket notification payloads into an object reference
package trigger

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	perr "csvprep/internal/platform/errors"

	"github.com/minio/minio-go/v7/pkg/notification"
)

// Sources reported on Ref
const (
	SourceS3  = "s3"
	SourceGCS = "gcs"
)

// Ref names the object an event points at
type Ref struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Source string `json:"source"`
	Event  string `json:"event,omitempty"`
}

// Options tunes decoding
type Options struct {
	// DecodeKeys unescapes S3 object keys, which notifications deliver form encoded
	DecodeKeys bool
}

// probe detects the payload shape without committing to one
type probe struct {
	Records json.RawMessage `json:"Records"`
	Event   string          `json:"Event"`
	Kind    string          `json:"kind"`
	Bucket  string          `json:"bucket"`
	Name    string          `json:"name"`
}

// gcsObject is the object resource sent by GCS notifications
type gcsObject struct {
	Kind   string `json:"kind"`
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// Decode reads an S3/MinIO notification or a GCS object notification
// only the first S3 record is used; any failure is a Validation error
func Decode(payload []byte, opt Options) (Ref, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return Ref{}, perr.Validationf("empty event payload")
	}

	var p probe
	if err := json.Unmarshal(payload, &p); err != nil {
		return Ref{}, perr.Wrap(err, perr.ErrorCodeValidation, "decode event")
	}
	switch {
	case p.Event == "s3:TestEvent":
		return Ref{}, perr.Validationf("s3 test event carries no object")
	case len(p.Records) > 0:
		return decodeS3(payload, opt)
	case p.Bucket != "" || p.Name != "" || strings.HasPrefix(p.Kind, "storage#"):
		return decodeGCS(payload)
	}
	return Ref{}, perr.Validationf("unrecognized event payload: no Records and no bucket/name")
}

func decodeS3(payload []byte, opt Options) (Ref, error) {
	var info notification.Info
	if err := json.Unmarshal(payload, &info); err != nil {
		return Ref{}, perr.Wrap(err, perr.ErrorCodeValidation, "decode s3 event")
	}
	if len(info.Records) == 0 {
		return Ref{}, perr.Validationf("s3 event has no records")
	}

	rec := info.Records[0]
	if rec.EventName != "" && !strings.Contains(rec.EventName, "ObjectCreated") {
		return Ref{}, perr.WithField(perr.Validationf("event %s is not an object creation", rec.EventName), "eventName")
	}
	key := rec.S3.Object.Key
	if opt.DecodeKeys {
		k, err := url.QueryUnescape(key)
		if err != nil {
			return Ref{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "decode object key"), "key")
		}
		key = k
	}
	return Ref{
		Bucket: rec.S3.Bucket.Name,
		Key:    key,
		Source: SourceS3,
		Event:  rec.EventName,
	}, nil
}

func decodeGCS(payload []byte) (Ref, error) {
	var o gcsObject
	if err := json.Unmarshal(payload, &o); err != nil {
		return Ref{}, perr.Wrap(err, perr.ErrorCodeValidation, "decode gcs event")
	}
	return Ref{Bucket: o.Bucket, Key: o.Name, Source: SourceGCS, Event: o.Kind}, nil
}
