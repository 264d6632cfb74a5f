// Package objstore reads and writes whole objects in a bucket store
package objstore

import (
	"context"
	"io"

	perr "csvprep/internal/platform/errors"
)

// ContentTypeCSV is the content type written for cleaned tables
const ContentTypeCSV = "text/csv"

// Store is the object store seam used by the preprocessor
// implementations are safe for concurrent use and are built once per process
type Store interface {
	// Get returns the full object body; limit > 0 rejects larger objects with InvalidArgument
	Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error)
	// Put writes body under bucket/key, replacing any existing object
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
	// BucketExists reports whether bucket is reachable with the current credentials
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// Close releases the client
	Close() error
}

// bucketMaker is implemented by stores that can create buckets
type bucketMaker interface {
	EnsureBucket(ctx context.Context, bucket string) error
}

// CheckBucket fails with NotFound when bucket is missing. With create set, stores that can
// create buckets make it instead
func CheckBucket(ctx context.Context, s Store, bucket string, create bool) error {
	if create {
		if bm, ok := s.(bucketMaker); ok {
			return bm.EnsureBucket(ctx, bucket)
		}
	}
	ok, err := s.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("bucket %s does not exist", bucket)
	}
	return nil
}

// readLimited reads r fully, rejecting bodies over limit
// size is the advertised length, or -1 when unknown
func readLimited(r io.Reader, size, limit int64, loc string) ([]byte, error) {
	if limit > 0 && size > limit {
		return nil, perr.InvalidArgf("object %s is %d bytes, limit is %d", loc, size, limit)
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s", loc)
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, perr.InvalidArgf("object %s exceeds limit of %d bytes", loc, limit)
	}
	return b, nil
}

func uri(scheme, bucket, key string) string { return scheme + "://" + bucket + "/" + key }
