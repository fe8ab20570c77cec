package qdrant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

var _ vectordb.Backend = (*Backend)(nil)

// ListIndexes returns the managed collections of the project, sorted by name.
func (b *Backend) ListIndexes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	names, err := b.api.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to list collections of project %q: %w", b.project, classify(err))
	}

	indexes := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, b.cfg.IndexPrefix) {
			indexes = append(indexes, name)
		}
	}
	slices.Sort(indexes)

	b.logger.Debug("[Qdrant] listed indexes", nil, map[string]interface{}{
		"project": b.project,
		"count":   len(indexes),
	})
	return indexes, nil
}

// CreateIndex creates the collection and a keyword payload index on the
// namespace field, which DescribeIndex and Query rely on. The collection
// name doubles as the backend id.
//
// When the collection already exists the payload index is still ensured
// before ErrIndexExists is returned, so a retry after a half-finished call
// leaves a usable index behind.
func (b *Backend) CreateIndex(ctx context.Context, spec vectordb.IndexSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	distance, err := toDistance(spec.Metric)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	req := &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.Dimension),
			Distance: distance,
		}),
	}
	createErr := classify(b.api.CreateCollection(ctx, req))
	if createErr != nil && !errors.Is(createErr, vectordb.ErrIndexExists) {
		return "", fmt.Errorf("[Qdrant] failed to create collection %q: %w", spec.Name, createErr)
	}

	if err := b.ensureNamespaceIndex(ctx, spec.Name); err != nil {
		return "", err
	}
	if createErr != nil {
		return "", fmt.Errorf("[Qdrant] collection %q: %w", spec.Name, createErr)
	}

	b.logger.Info("[Qdrant] created collection", nil, map[string]interface{}{
		"project":   b.project,
		"index":     spec.Name,
		"dimension": spec.Dimension,
		"metric":    string(spec.Metric),
	})
	return spec.Name, nil
}

// ensureNamespaceIndex creates the keyword index on the namespace field.
// Qdrant treats a repeated request for the same index as a no-op.
func (b *Backend) ensureNamespaceIndex(ctx context.Context, collection string) error {
	_, err := b.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      payloadNamespace,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to index namespace field of %q: %w", collection, classify(err))
	}
	return nil
}

// DescribeIndex counts the distinct namespaces of index with an exact facet
// over the namespace field.
func (b *Backend) DescribeIndex(ctx context.Context, index string) (*vectordb.IndexStats, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: index name must not be empty", vectordb.ErrInvalidConfiguration)
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	info, err := b.api.GetCollectionInfo(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to get collection %q: %w", index, classify(err))
	}

	hits, err := b.api.Facet(ctx, &qdrant.FacetCounts{
		CollectionName: index,
		Key:            payloadNamespace,
		Limit:          qdrant.PtrOf(b.cfg.FacetLimit),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to count namespaces of %q: %w", index, classify(err))
	}

	size, _ := extractVectorDetails(info)
	return &vectordb.IndexStats{
		Name:           index,
		Dimension:      size,
		NamespaceCount: countNamespaces(hits),
		VectorCount:    info.GetPointsCount(),
	}, nil
}

// Upsert writes records in batches of defaultBatchSize and waits for each
// batch to be applied.
func (b *Backend) Upsert(ctx context.Context, index, namespace string, records []vectordb.Record) error {
	if index == "" || namespace == "" {
		return fmt.Errorf("%w: index and namespace are required", vectordb.ErrInvalidConfiguration)
	}
	if len(records) == 0 {
		return nil
	}

	points, err := toPoints(namespace, records)
	if err != nil {
		return err
	}

	for start := 0; start < len(points); start += defaultBatchSize {
		end := min(start+defaultBatchSize, len(points))
		if err := b.upsertBatch(ctx, index, points[start:end]); err != nil {
			return fmt.Errorf("[Qdrant] batch upsert failed at [%d:%d]: %w", start, end, err)
		}
		b.logger.Debug("[Qdrant] inserted batch", nil, map[string]interface{}{
			"project":   b.project,
			"index":     index,
			"namespace": namespace,
			"start":     start,
			"end":       end,
		})
	}
	return nil
}

func (b *Backend) upsertBatch(ctx context.Context, index string, batch []*qdrant.PointStruct) error {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	_, err := b.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: index,
		Points:         batch,
		Wait:           qdrant.PtrOf(true),
	})
	return classify(err)
}

// Query searches index restricted to the request's namespace.
func (b *Backend) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.Match, error) {
	if err := validateQuery(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	resp, err := b.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.Index,
		Query:          qdrant.NewQueryDense(req.Vector),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(payloadNamespace, req.Namespace)},
		},
		Limit:       qdrant.PtrOf(uint64(req.TopK)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search failed in %q: %w", req.Index, classify(err))
	}

	matches, err := toMatches(resp)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("[Qdrant] search returned", nil, map[string]interface{}{
		"project":   b.project,
		"index":     req.Index,
		"namespace": req.Namespace,
		"results":   len(matches),
	})
	return matches, nil
}
