package miniowr

import "time"

// Identifier is the name a host uses to select this provider.
const Identifier = "minio"

// Config defines the configuration options for the MinIO provider.
type Config struct {
	// Endpoint is the MinIO server endpoint (e.g., "localhost:9000").
	Endpoint string `yaml:"endpoint" validate:"required"`

	// AccessKey is the access key for authentication.
	AccessKey string `yaml:"access_key" validate:"required" mask:"true"`

	// SecretKey is the secret key for authentication.
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`

	// Bucket holds every object written by the provider.
	Bucket string `yaml:"bucket" validate:"required"`

	// Region skips bucket location lookups when set.
	Region string `yaml:"region"`

	// UseSSL enables HTTPS connection to MinIO server.
	UseSSL bool `yaml:"use_ssl" default:"false"`

	// FolderName, when set, prefixes every object name. Keys returned to callers never include it.
	FolderName string `yaml:"folder_name" validate:"omitempty,folder"`

	// PresignExpiry is the lifetime of URLs returned by GetPresignedDownloadURL.
	PresignExpiry time.Duration `yaml:"presign_expiry" default:"1h" validate:"gte=0,lte=168h"`
}
