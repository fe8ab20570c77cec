package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/retry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type staticFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (f *staticFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls.Add(1)
	return f.data, f.err
}

type staticLoader struct {
	pages []schema.Document
}

func (l staticLoader) Load(context.Context, []byte) ([]schema.Document, error) {
	return l.pages, nil
}

type fakePlacer struct {
	placement registry.Placement
	err       error
	calls     atomic.Int32
}

func (p *fakePlacer) Place(_ context.Context, ns string) (registry.Placement, error) {
	p.calls.Add(1)
	if p.err != nil {
		return registry.Placement{}, p.err
	}
	pl := p.placement
	pl.Namespace = ns
	return pl, nil
}

// lengthEmbedder encodes each text as [len(text), 1].
type lengthEmbedder struct {
	err   error
	calls atomic.Int32
}

func (e *lengthEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (e *lengthEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	v, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

type recordingBackend struct {
	vectordb.Backend

	mu        sync.Mutex
	records   []vectordb.Record
	indexes   map[string]bool
	failFirst int
	upserts   int
}

func (b *recordingBackend) Upsert(_ context.Context, index, namespace string, records []vectordb.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upserts++
	if b.failFirst > 0 {
		b.failFirst--
		return fmt.Errorf("%w: unavailable", vectordb.ErrTransient)
	}
	if b.indexes == nil {
		b.indexes = map[string]bool{}
	}
	b.indexes[index+"/"+namespace] = true
	b.records = append(b.records, records...)
	return nil
}

type fakeTrending struct {
	err     error
	columns []string
}

func (t *fakeTrending) Ensure(_ context.Context, column string) error {
	t.columns = append(t.columns, column)
	return t.err
}

type fakeArchive struct {
	data []byte
}

func (a *fakeArchive) ArchiveSource(_ context.Context, ns string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	a.data = data
	return ns + "/source.pdf", err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ChunkSize = 40
	cfg.ChunkOverlap = 5
	cfg.EmbedBatchSize = 3
	cfg.Parallelism = 2
	cfg.Retry = retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, Factor: 1}
	return cfg
}

func page(n int, text string) schema.Document {
	return schema.Document{PageContent: text, Metadata: map[string]any{"page": n, "total_pages": 2}}
}

var twoPages = []schema.Document{
	page(1, strings.Repeat("alpha beta gamma delta ", 6)),
	page(2, strings.Repeat("epsilon zeta eta theta ", 4)),
}

type harness struct {
	placer   *fakePlacer
	backend  *recordingBackend
	embedder *lengthEmbedder
	trending *fakeTrending
	archive  *fakeArchive
	fetcher  *staticFetcher
	ingestor *Ingestor
}

func newHarness(t *testing.T, pages []schema.Document) *harness {
	t.Helper()
	h := &harness{
		placer:   &fakePlacer{placement: registry.Placement{IndexName: "index-a", Project: "P1"}},
		backend:  &recordingBackend{},
		embedder: &lengthEmbedder{},
		trending: &fakeTrending{},
		archive:  &fakeArchive{},
		fetcher:  &staticFetcher{data: []byte("%PDF-1.4")},
	}
	projects := vectordb.Projects{{Name: "P1", Backend: h.backend}}

	ing, err := NewIngestor(testConfig(), h.placer, projects, h.embedder, logger.FromZap(zaptest.NewLogger(t)),
		WithFetcher(h.fetcher),
		WithLoader(staticLoader{pages: pages}),
		WithTrending(h.trending),
		WithArchive(h.archive),
	)
	require.NoError(t, err)
	h.ingestor = ing
	return h
}

func TestProcessIndexesAllChunks(t *testing.T) {
	h := newHarness(t, twoPages)

	res, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	require.NoError(t, err)

	assert.Equal(t, registry.Placement{Namespace: "doc1", IndexName: "index-a", Project: "P1"}, res.Placement)
	assert.Equal(t, 2, res.Pages)
	assert.Greater(t, res.Chunks, 2)
	assert.Equal(t, "doc1/source.pdf", res.ArchiveKey)
	assert.Equal(t, []byte("%PDF-1.4"), h.archive.data)
	assert.Equal(t, []string{"doc1"}, h.trending.columns)

	require.Len(t, h.backend.records, res.Chunks)
	assert.True(t, h.backend.indexes["index-a/doc1"])

	sort.Slice(h.backend.records, func(i, j int) bool {
		return h.backend.records[i].Metadata["chunk_index"].(int) < h.backend.records[j].Metadata["chunk_index"].(int)
	})
	first, last := h.backend.records[0], h.backend.records[len(h.backend.records)-1]
	assert.Equal(t, "0", first.ID)
	assert.Equal(t, 1, first.Metadata["page"])
	assert.Equal(t, 0, first.Metadata["start_index"])
	assert.Equal(t, float32(len(first.Text)), first.Vector[0])
	assert.Equal(t, 2, last.Metadata["page"])
}

func TestProcessRejectsEmptyNamespace(t *testing.T) {
	h := newHarness(t, twoPages)

	_, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, h.fetcher.calls.Load())
	assert.Zero(t, h.placer.calls.Load())
}

func TestProcessWithoutTextDoesNotPlace(t *testing.T) {
	h := newHarness(t, []schema.Document{page(1, "   \n  ")})

	_, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	assert.ErrorIs(t, err, ErrNoChunks)
	assert.Zero(t, h.placer.calls.Load())
}

func TestProcessFetchFailureDoesNotPlace(t *testing.T) {
	h := newHarness(t, twoPages)
	h.fetcher.err = fmt.Errorf("%w: http 404", ErrFetchFailed)

	_, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Zero(t, h.placer.calls.Load())
}

func TestProcessPropagatesPlacementError(t *testing.T) {
	h := newHarness(t, twoPages)
	h.placer.err = errors.New("capacity exhausted")

	_, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	assert.EqualError(t, err, "capacity exhausted")
	assert.Empty(t, h.backend.records)
}

func TestProcessRetriesTransientUpsert(t *testing.T) {
	h := newHarness(t, []schema.Document{page(1, "short text")})
	h.backend.failFirst = 1

	res, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Chunks)
	assert.Equal(t, 2, h.backend.upserts)
}

func TestProcessEmbedFailure(t *testing.T) {
	h := newHarness(t, twoPages)
	h.embedder.err = errors.New("embedding down")

	_, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	assert.ErrorContains(t, err, "embedding down")
	assert.Empty(t, h.backend.records)
}

func TestProcessToleratesExistingTrendingColumn(t *testing.T) {
	h := newHarness(t, twoPages)
	h.trending.err = fmt.Errorf("%w: cat_is_trending.doc1", registry.ErrColumnExists)

	_, err := h.ingestor.Process(context.Background(), "https://example.com/a.pdf", "doc1")
	require.NoError(t, err)
}

func TestSplitterNumbersChunksAcrossPages(t *testing.T) {
	s := NewSplitter(testConfig())

	chunks, err := s.Split(twoPages)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, len(c.Text), 40)
		src := twoPages[c.Page-1].PageContent
		require.GreaterOrEqual(t, c.StartIndex, 0)
		assert.Equal(t, c.Text, src[c.StartIndex:c.StartIndex+len(c.Text)])
	}
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[len(chunks)-1].Page)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		switch r.URL.Path {
		case "/ok.pdf":
			_, _ = w.Write([]byte("%PDF-1.4"))
		case "/big.pdf":
			_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxDocumentBytes = 32
	f := NewHTTPFetcher(cfg)
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/ok.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	_, err = f.Fetch(ctx, srv.URL+"/big.pdf")
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	_, err = f.Fetch(ctx, srv.URL+"/missing.pdf")
	assert.ErrorIs(t, err, ErrFetchFailed)

	_, err = f.Fetch(ctx, "file:///etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type mapResolver map[string]registry.Placement

func (m mapResolver) LookupByNamespace(_ context.Context, ns string) (registry.Placement, error) {
	p, ok := m[ns]
	if !ok {
		return registry.Placement{}, fmt.Errorf("namespace %q: %w", ns, registry.ErrNotFound)
	}
	return p, nil
}

type fakeUsage struct {
	err     error
	tracked []string
}

func (u *fakeUsage) Track(_ context.Context, doc string) error {
	u.tracked = append(u.tracked, doc)
	return u.err
}

func TestQueryResolvesAndMapsMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	usage := &fakeUsage{err: errors.New("tracker down")}
	resolver := mapResolver{"doc1": {Namespace: "doc1", IndexName: "index-b", Project: "P2"}}
	projects := vectordb.Projects{
		{Name: "P1", Backend: mocks.NewMockBackend(ctrl)},
		{Name: "P2", Backend: backend},
	}

	backend.EXPECT().Query(gomock.Any(), vectordb.QueryRequest{
		Index:     "index-b",
		Namespace: "doc1",
		Vector:    []float32{5, 1},
		TopK:      DefaultTopK,
	}).Return([]vectordb.Match{
		{ID: "3", Score: 0.9, Text: "hello", Metadata: map[string]any{"page": int64(2), "chunk_index": int64(3)}},
		{ID: "7", Score: 0.5, Text: "world"},
	}, nil)

	q := NewQuerier(testConfig(), resolver, projects, &lengthEmbedder{}, usage, logger.NewNopLogger())
	results, err := q.Query(context.Background(), "doc1", "hello", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"doc1"}, usage.tracked)
	assert.Equal(t, []QueryResult{
		{Text: "hello", Page: 2, ChunkIndex: 3, Score: 0.9},
		{Text: "world", Page: -1, ChunkIndex: -1, Score: 0.5},
	}, results)
}

func TestQueryUnknownNamespace(t *testing.T) {
	embedder := &lengthEmbedder{}
	q := NewQuerier(testConfig(), mapResolver{}, vectordb.Projects{}, embedder, nil, logger.NewNopLogger())

	_, err := q.Query(context.Background(), "nope", "hello", 5)
	assert.True(t, registry.IsNotFound(err))
	assert.Zero(t, embedder.calls.Load())
}

func TestQueryRejectsEmptyInput(t *testing.T) {
	q := NewQuerier(testConfig(), mapResolver{}, vectordb.Projects{}, &lengthEmbedder{}, nil, logger.NewNopLogger())

	_, err := q.Query(context.Background(), "", "hello", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = q.Query(context.Background(), "doc1", "  ", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	assert.ErrorIs(t, cfg.Validate(), vectordb.ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.Parallelism = 0
	assert.ErrorIs(t, cfg.Validate(), vectordb.ErrInvalidConfiguration)
}
