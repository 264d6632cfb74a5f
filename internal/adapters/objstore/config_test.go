package objstore

import (
	"testing"

	"csvprep/internal/platform/config"
	kit "csvprep/internal/platform/testkit"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("SERVICE_OBJSTORE_DRIVER", "")
	t.Setenv("SERVICE_S3_ENDPOINT", "")
	t.Setenv("SERVICE_S3_SSL", "")

	c := ConfigFromEnv(config.New())
	kit.MustEqual(t, c.Driver, DriverS3, "driver")
	kit.MustEqual(t, c.S3.Endpoint, "s3.amazonaws.com", "endpoint")
	kit.MustEqual(t, c.S3.UseSSL, true, "ssl")
	kit.MustEqual(t, c.S3.PathStyle, false, "path style")
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVICE_OBJSTORE_DRIVER", "GCS")
	t.Setenv("SERVICE_S3_ENDPOINT", "minio:9000")
	t.Setenv("SERVICE_S3_ACCESS_KEY", "minioadmin")
	t.Setenv("SERVICE_S3_SSL", "false")
	t.Setenv("SERVICE_GCS_ENDPOINT", "http://fake-gcs:4443/storage/v1/")

	c := ConfigFromEnv(config.New())
	kit.MustEqual(t, c.Driver, DriverGCS, "driver")
	kit.MustEqual(t, c.S3.Endpoint, "minio:9000", "endpoint")
	kit.MustEqual(t, c.S3.AccessKey, "minioadmin", "access key")
	kit.MustEqual(t, c.S3.UseSSL, false, "ssl")
	kit.MustEqual(t, c.GCS.Endpoint, "http://fake-gcs:4443/storage/v1/", "gcs endpoint")

	t.Setenv("SERVICE_OBJSTORE_DRIVER", "ftp")
	kit.MustPanic(t, func() { _ = ConfigFromEnv(config.New()) })
}
