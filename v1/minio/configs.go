package minio

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

const (
	unknownSize                   int64  = -1
	connectionHealthCheckInterval        = 30 * time.Second
	minPartSizeForUpload          uint64 = 5 * 1024 * 1024
)

// Config locates the bucket that keeps the source document of every
// namespace. With Enabled false no connection is made and archiving is a
// no-op.
type Config struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`

	// MinIO server endpoint, e.g. "localhost:9000"
	Endpoint        string `yaml:"endpoint" koanf:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" koanf:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" koanf:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl" koanf:"use_ssl"`
	BucketName      string `yaml:"bucket_name" koanf:"bucket_name"`
	Region          string `yaml:"region" koanf:"region"`

	// Create the bucket at start-up when it does not exist.
	CreateBucket bool `yaml:"create_bucket" koanf:"create_bucket"`

	// Part size for multipart uploads of large documents.
	PartSize uint64 `yaml:"part_size" koanf:"part_size"`

	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		BucketName:   "vectorshard-sources",
		CreateBucket: true,
		PartSize:     minPartSizeForUpload,
		Timeout:      time.Minute,
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("%w: minio endpoint cannot be empty", vectordb.ErrInvalidConfiguration)
	}
	if c.BucketName == "" {
		return fmt.Errorf("%w: minio bucket name cannot be empty", vectordb.ErrInvalidConfiguration)
	}
	if c.PartSize != 0 && c.PartSize < minPartSizeForUpload {
		return fmt.Errorf("%w: minio part size must be at least %d bytes", vectordb.ErrInvalidConfiguration, minPartSizeForUpload)
	}
	return nil
}
