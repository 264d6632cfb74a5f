package objstore

import (
	"context"

	perr "csvprep/internal/platform/errors"
)

// Open builds the backend named by cfg.Driver
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverS3, "":
		return NewS3(cfg.S3)
	case DriverGCS:
		return NewGCS(ctx, cfg.GCS)
	case DriverMem:
		return NewMem(), nil
	default:
		return nil, perr.InvalidArgf("objstore: unknown driver %q", cfg.Driver)
	}
}
