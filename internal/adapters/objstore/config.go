package objstore

import (
	"csvprep/internal/platform/config"
)

// Driver names accepted by SERVICE_OBJSTORE_DRIVER
const (
	DriverS3  = "s3"
	DriverGCS = "gcs"
	DriverMem = "mem"
)

// Config selects and configures one backend
type Config struct {
	Driver string
	S3     S3Config
	GCS    GCSConfig
}

// S3Config configures the minio-go client; blank keys fall back to the environment credential chain
type S3Config struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	UseSSL       bool
	PathStyle    bool
}

// GCSConfig configures the cloud storage client; Endpoint targets an emulator without auth
type GCSConfig struct {
	Endpoint        string
	CredentialsFile string
}

// ConfigFromEnv reads SERVICE_OBJSTORE_*, SERVICE_S3_* and SERVICE_GCS_*
func ConfigFromEnv(cfg config.Conf) Config {
	svc := cfg.Prefix("SERVICE_")
	s3 := svc.Prefix("S3_")
	gcs := svc.Prefix("GCS_")
	return Config{
		Driver: svc.Prefix("OBJSTORE_").MayEnum("DRIVER", DriverS3, DriverS3, DriverGCS, DriverMem),
		S3: S3Config{
			Endpoint:     s3.MayString("ENDPOINT", "s3.amazonaws.com"),
			AccessKey:    s3.MayString("ACCESS_KEY", ""),
			SecretKey:    s3.MayString("SECRET_KEY", ""),
			SessionToken: s3.MayString("SESSION_TOKEN", ""),
			Region:       s3.MayString("REGION", ""),
			UseSSL:       s3.MayBool("SSL", true),
			PathStyle:    s3.MayBool("PATH_STYLE", false),
		},
		GCS: GCSConfig{
			Endpoint:        gcs.MayString("ENDPOINT", ""),
			CredentialsFile: gcs.MayString("CREDENTIALS_FILE", ""),
		},
	}
}
