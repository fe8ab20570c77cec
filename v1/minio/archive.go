package minio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

const sourceObjectName = "source.pdf"

// SourceKey is the object key of the source document of namespace.
func SourceKey(namespace string) string {
	return namespace + "/" + sourceObjectName
}

// ArchiveSource uploads the source document of namespace, replacing any
// previous copy. size may be -1 when unknown. It returns the object key,
// or "" when archiving is disabled.
func (m *MinioClient) ArchiveSource(ctx context.Context, namespace string, r io.Reader, size int64) (string, error) {
	if !m.cfg.Enabled {
		return "", nil
	}
	if namespace == "" {
		return "", errors.New("minio: namespace is required")
	}
	if size == 0 {
		size = unknownSize
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	key := SourceKey(namespace)
	info, err := m.current().PutObject(ctx, m.cfg.BucketName, key, r, size, minio.PutObjectOptions{
		ContentType: "application/pdf",
		PartSize:    m.cfg.PartSize,
		UserMetadata: map[string]string{
			"namespace": namespace,
		},
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, translateError(err))
	}

	m.logger.Debug("[MinIO] archived source document", nil, map[string]interface{}{
		"namespace": namespace,
		"key":       key,
		"size":      info.Size,
	})
	return key, nil
}

// HasSource reports whether a source document is archived for namespace.
func (m *MinioClient) HasSource(ctx context.Context, namespace string) (bool, error) {
	if !m.cfg.Enabled {
		return false, nil
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	_, err := m.current().StatObject(ctx, m.cfg.BucketName, SourceKey(namespace), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	err = translateError(err)
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	return false, err
}

// RemoveSource deletes the archived document of namespace. Removing a
// missing object is not an error.
func (m *MinioClient) RemoveSource(ctx context.Context, namespace string) error {
	if !m.cfg.Enabled {
		return nil
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if err := m.current().RemoveObject(ctx, m.cfg.BucketName, SourceKey(namespace), minio.RemoveObjectOptions{}); err != nil {
		return translateError(err)
	}
	return nil
}

func (m *MinioClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.cfg.Timeout)
}
