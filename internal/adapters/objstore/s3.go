package objstore

import (
	"bytes"
	"context"
	"net/http"

	perr "csvprep/internal/platform/errors"
	"csvprep/internal/platform/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 is a Store over any S3 compatible endpoint (AWS, MinIO)
type S3 struct {
	cli *minio.Client
}

// NewS3 builds a minio-go client; it does not dial until the first call
func NewS3(cfg S3Config) (*S3, error) {
	creds := credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken)
	if cfg.AccessKey == "" {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
		})
	}
	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        creds,
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "s3 client for %s", cfg.Endpoint)
	}
	return &S3{cli: cli}, nil
}

// Get implements Store
func (s *S3) Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	loc := uri("s3", bucket, key)
	obj, err := s.cli.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s3Err(err, "get", loc)
	}
	defer obj.Close()

	// GetObject is lazy; Stat surfaces missing keys before any body is read
	info, err := obj.Stat()
	if err != nil {
		return nil, s3Err(err, "get", loc)
	}
	b, err := readLimited(obj, info.Size, limit, loc)
	if err != nil {
		return nil, err
	}
	logger.C(ctx).Debug().Str("object", loc).Int("bytes", len(b)).Msg("s3 get")
	return b, nil
}

// Put implements Store
func (s *S3) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	loc := uri("s3", bucket, key)
	_, err := s.cli.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return s3Err(err, "put", loc)
	}
	logger.C(ctx).Debug().Str("object", loc).Int("bytes", len(body)).Msg("s3 put")
	return nil
}

// BucketExists implements Store
func (s *S3) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ok, err := s.cli.BucketExists(ctx, bucket)
	if err != nil {
		return false, s3Err(err, "stat", "s3://"+bucket)
	}
	return ok, nil
}

// EnsureBucket creates bucket when it does not exist yet
func (s *S3) EnsureBucket(ctx context.Context, bucket string) error {
	ok, err := s.BucketExists(ctx, bucket)
	if err != nil || ok {
		return err
	}
	if err := s.cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return s3Err(err, "create", "s3://"+bucket)
	}
	return nil
}

// Close implements Store; minio clients hold no closable resources
func (s *S3) Close() error { return nil }

// s3Err classifies a minio-go error: missing objects are NotFound, auth failures are
// permanent, everything else is treated as a transient backend failure
func s3Err(err error, op, loc string) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "%s %s: not found", op, loc)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "%s %s: access denied", op, loc)
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s %s", op, loc)
}
