package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeAPI struct {
	mu         sync.Mutex
	buckets    map[string]bool
	objects    map[string][]byte
	opts       map[string]minio.PutObjectOptions
	existsErr  error
	makeBucket int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		buckets: map[string]bool{},
		objects: map[string][]byte{},
		opts:    map[string]minio.PutObjectOptions{},
	}
}

func (f *fakeAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.buckets[bucket], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.makeBucket++
	f.buckets[bucket] = true
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = data
	f.opts[key] = opts
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeAPI) StatObject(_ context.Context, bucket, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	}
	return minio.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+key)
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = "localhost:9000"
	cfg.BucketName = "sources"
	return cfg
}

func dialTo(f *fakeAPI) func(Config) (api, error) {
	return func(Config) (api, error) { return f, nil }
}

func TestNewClientCreatesBucket(t *testing.T) {
	f := newFakeAPI()
	_, err := newClient(testConfig(), logger.FromZap(zaptest.NewLogger(t)), dialTo(f))
	require.NoError(t, err)
	assert.True(t, f.buckets["sources"])
	assert.Equal(t, 1, f.makeBucket)
}

func TestNewClientMissingBucketWithoutCreation(t *testing.T) {
	cfg := testConfig()
	cfg.CreateBucket = false

	_, err := newClient(cfg, logger.NewNopLogger(), dialTo(newFakeAPI()))
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestArchiveRoundTrip(t *testing.T) {
	f := newFakeAPI()
	m, err := newClient(testConfig(), logger.NewNopLogger(), dialTo(f))
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := m.HasSource(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, ok)

	key, err := m.ArchiveSource(ctx, "doc-1", bytes.NewReader([]byte("%PDF-1.4")), 8)
	require.NoError(t, err)
	assert.Equal(t, "doc-1/source.pdf", key)
	assert.Equal(t, []byte("%PDF-1.4"), f.objects["sources/doc-1/source.pdf"])
	assert.Equal(t, "application/pdf", f.opts[key].ContentType)
	assert.Equal(t, "doc-1", f.opts[key].UserMetadata["namespace"])

	ok, err = m.HasSource(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.RemoveSource(ctx, "doc-1"))
	ok, err = m.HasSource(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDisabledClientIsNoop(t *testing.T) {
	m, err := NewClient(Config{}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.False(t, m.Enabled())

	key, err := m.ArchiveSource(context.Background(), "doc-1", bytes.NewReader(nil), 0)
	require.NoError(t, err)
	assert.Empty(t, key)

	ok, err := m.HasSource(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReconnectSwapsClient(t *testing.T) {
	broken := newFakeAPI()
	broken.existsErr = errors.New("connection refused")
	healthy := newFakeAPI()
	healthy.buckets["sources"] = true

	m := &MinioClient{
		client:         broken,
		cfg:            testConfig(),
		logger:         logger.NewNopLogger(),
		dial:           dialTo(healthy),
		shutdownSignal: make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		m.monitorConnection(context.Background(), 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.current() == api(healthy) }, time.Second, 5*time.Millisecond)
	m.GracefulShutdown()
	<-done
}

func TestTranslateError(t *testing.T) {
	assert.ErrorIs(t, translateError(minio.ErrorResponse{Code: "NoSuchKey"}), ErrObjectNotFound)
	assert.ErrorIs(t, translateError(minio.ErrorResponse{Code: "NoSuchBucket"}), ErrBucketNotFound)
	assert.ErrorIs(t, translateError(minio.ErrorResponse{Code: "AccessDenied"}), ErrAccessDenied)

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))
	assert.NoError(t, translateError(nil))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, testConfig().Validate())

	cfg := testConfig()
	cfg.Endpoint = ""
	assert.ErrorIs(t, cfg.Validate(), vectordb.ErrInvalidConfiguration)

	cfg = testConfig()
	cfg.PartSize = 1024
	assert.ErrorIs(t, cfg.Validate(), vectordb.ErrInvalidConfiguration)
}
