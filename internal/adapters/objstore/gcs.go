package objstore

import (
	"context"
	"errors"

	perr "csvprep/internal/platform/errors"
	"csvprep/internal/platform/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS is a Store over Google Cloud Storage
type GCS struct {
	cli *storage.Client
}

// NewGCS builds a storage client with application default credentials unless cfg overrides them
func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	var opts []option.ClientOption
	switch {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	cli, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "gcs client")
	}
	return &GCS{cli: cli}, nil
}

// Get implements Store
func (g *GCS) Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	loc := uri("gs", bucket, key)
	r, err := g.cli.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, gcsErr(err, "get", loc)
	}
	defer r.Close()

	b, err := readLimited(r, r.Attrs.Size, limit, loc)
	if err != nil {
		return nil, err
	}
	logger.C(ctx).Debug().Str("object", loc).Int("bytes", len(b)).Msg("gcs get")
	return b, nil
}

// Put implements Store
func (g *GCS) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	loc := uri("gs", bucket, key)
	w := g.cli.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return gcsErr(err, "put", loc)
	}
	// the upload is only committed on Close
	if err := w.Close(); err != nil {
		return gcsErr(err, "put", loc)
	}
	logger.C(ctx).Debug().Str("object", loc).Int("bytes", len(body)).Msg("gcs put")
	return nil
}

// BucketExists implements Store
func (g *GCS) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := g.cli.Bucket(bucket).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, gcsErr(err, "stat", "gs://"+bucket)
	}
	return true, nil
}

// Close implements Store
func (g *GCS) Close() error { return g.cli.Close() }

func gcsErr(err error, op, loc string) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "%s %s: not found", op, loc)
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s %s", op, loc)
}
