package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// The facet API used by DescribeIndex needs 1.12 or newer.
const qdrantImage = "qdrant/qdrant:v1.15.0"

func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := strconv.Itoa(port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: qdrantImage,
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	mappedPort, err := c.MappedPort(ctx, "6334")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	if err := waitForQdrantReady(host, mappedPort.Port(), 30*time.Second); err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}

	return &QdrantContainer{Container: c, Host: host, Port: mappedPort.Port()}, nil
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForQdrantReady(host, port string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			time.Sleep(2 * time.Second)
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
}

func testConfig(t *testing.T, c *QdrantContainer) Config {
	port, err := strconv.Atoi(c.Port)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.CheckCompatibility = false
	cfg.Projects = []ProjectConfig{{
		Name:      "primary",
		Endpoint:  c.Host,
		Port:      port,
		Anonymous: true,
	}}
	return cfg
}

func vector(size int, seed int) []float32 {
	v := make([]float32, size)
	for i := range v {
		v[i] = float32((i+seed)%100) / 100.0
	}
	return v
}

func TestBackendAgainstQdrant(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	c, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	var projects vectordb.Projects
	app := fxtest.New(t,
		fx.Supply(testConfig(t, c)),
		fx.Provide(func() logger.Logger { return logger.NewNopLogger() }),
		FXModule,
		fx.Populate(&projects),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.Len(t, projects, 1)
	backend, err := projects.Get("primary")
	require.NoError(t, err)

	const dim = 16
	spec := vectordb.IndexSpec{Name: "index-it000001", Dimension: dim, Metric: vectordb.Cosine}

	t.Run("create and list", func(t *testing.T) {
		id, err := backend.CreateIndex(ctx, spec)
		require.NoError(t, err)
		assert.Equal(t, spec.Name, id)

		indexes, err := backend.ListIndexes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{spec.Name}, indexes)
	})

	t.Run("duplicate create reports index exists", func(t *testing.T) {
		_, err := backend.CreateIndex(ctx, spec)
		assert.ErrorIs(t, err, vectordb.ErrIndexExists)
	})

	t.Run("empty index has no namespaces", func(t *testing.T) {
		stats, err := backend.DescribeIndex(ctx, spec.Name)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.NamespaceCount)
		assert.Equal(t, dim, stats.Dimension)
	})

	t.Run("upsert counts namespaces", func(t *testing.T) {
		for n, ns := range []string{"doc-a", "doc-b"} {
			records := make([]vectordb.Record, 3)
			for i := range records {
				records[i] = vectordb.Record{
					ID:       fmt.Sprintf("chunk-%d", i),
					Vector:   vector(dim, n*10+i),
					Text:     fmt.Sprintf("%s text %d", ns, i),
					Metadata: map[string]any{"page": i + 1},
				}
			}
			require.NoError(t, backend.Upsert(ctx, spec.Name, ns, records))
		}
		// re-upsert overwrites
		require.NoError(t, backend.Upsert(ctx, spec.Name, "doc-a", []vectordb.Record{{
			ID: "chunk-0", Vector: vector(dim, 0), Text: "doc-a text 0",
		}}))

		stats, err := backend.DescribeIndex(ctx, spec.Name)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.NamespaceCount)
		assert.Equal(t, uint64(6), stats.VectorCount)
	})

	t.Run("query stays inside namespace", func(t *testing.T) {
		matches, err := backend.Query(ctx, vectordb.QueryRequest{
			Index: spec.Name, Namespace: "doc-b", Vector: vector(dim, 10), TopK: 10,
		})
		require.NoError(t, err)
		require.Len(t, matches, 3)
		for _, m := range matches {
			assert.Contains(t, m.Text, "doc-b")
		}
	})

	t.Run("describe unknown index", func(t *testing.T) {
		_, err := backend.DescribeIndex(ctx, "index-missing")
		assert.Error(t, err)
	})
}
