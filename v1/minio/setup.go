package minio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// api is the subset of *minio.Client the archive uses.
type api interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioClient stores source documents in one bucket. The underlying client
// is swapped by the connection monitor when the health check fails.
type MinioClient struct {
	mu     sync.RWMutex
	client api

	cfg    Config
	logger logger.Logger
	dial   func(Config) (api, error)

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient connects to MinIO, validates the connection and makes sure the
// bucket exists. A disabled config yields a client whose operations are
// no-ops.
func NewClient(cfg Config, log logger.Logger) (*MinioClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newClient(cfg, log, connectToMinio)
}

func newClient(cfg Config, log logger.Logger, dial func(Config) (api, error)) (*MinioClient, error) {
	m := &MinioClient{
		cfg:            cfg,
		logger:         log,
		dial:           dial,
		shutdownSignal: make(chan struct{}),
	}
	if !cfg.Enabled {
		log.Info("[MinIO] source archive disabled", nil)
		return m, nil
	}

	client, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	m.client = client

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	log.Info("[MinIO] connected", nil, map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"bucket":   cfg.BucketName,
	})
	return m, nil
}

func connectToMinio(cfg Config) (api, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

func (m *MinioClient) current() api {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Enabled reports whether documents are archived.
func (m *MinioClient) Enabled() bool {
	return m.cfg.Enabled
}

func (m *MinioClient) validateConnection(ctx context.Context) error {
	c := m.current()
	if c == nil {
		return ErrConnectionFailed
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := c.BucketExists(ctx, m.cfg.BucketName)
	return err
}

func (m *MinioClient) ensureBucketExists(ctx context.Context) error {
	c := m.current()
	bucket := m.cfg.BucketName

	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists, bucket: %v, err: %w", bucket, translateError(err))
	}
	if exists {
		return nil
	}
	if !m.cfg.CreateBucket {
		return fmt.Errorf("%w: %s, please create it manually", ErrBucketNotFound, bucket)
	}

	m.logger.Info("[MinIO] bucket does not exist, creating it", nil, map[string]interface{}{
		"bucket": bucket,
		"region": m.cfg.Region,
	})
	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// monitorConnection checks the connection periodically and redials when
// the check fails. It returns when ctx is done or the client is shut down.
func (m *MinioClient) monitorConnection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.validateConnection(ctx); err != nil {
				m.logger.Error("[MinIO] connection health check failed", err, map[string]interface{}{
					"endpoint": m.cfg.Endpoint,
				})
				m.reconnect(ctx)
			}
		case <-m.shutdownSignal:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (m *MinioClient) reconnect(ctx context.Context) {
	client, err := m.dial(m.cfg)
	if err != nil {
		m.logger.Error("[MinIO] reconnection failed", err, nil)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.BucketExists(checkCtx, m.cfg.BucketName); err != nil {
		m.logger.Error("[MinIO] connection validation failed", err, nil)
		return
	}

	m.mu.Lock()
	m.client = client
	m.mu.Unlock()
	m.logger.Info("[MinIO] reconnected", nil, map[string]interface{}{
		"endpoint": m.cfg.Endpoint,
	})
}

// GracefulShutdown stops the connection monitor.
func (m *MinioClient) GracefulShutdown() {
	m.closeShutdownOnce.Do(func() {
		close(m.shutdownSignal)
	})
}
