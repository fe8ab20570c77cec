package registry

import (
	"context"
	"errors"

	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	insertPlacementSQL = "INSERT INTO volume_handling_table (namespace, index_name, project) VALUES (?, ?, ?)"
	selectByNamespace  = "SELECT namespace, index_name, project FROM volume_handling_table WHERE namespace = ?"
	selectByIndex      = "SELECT namespace, index_name, project FROM volume_handling_table WHERE index_name = ? ORDER BY namespace LIMIT 1"
)

// Cache is an optional read-through cache in front of namespace lookups.
// Placements never change, so a hit is authoritative.
type Cache interface {
	Get(ctx context.Context, namespace string) (Placement, bool, error)
	Set(ctx context.Context, p Placement) error
}

// Registry is the durable namespace → (index, project) mapping.
type Registry struct {
	pool   ConnPool
	cache  Cache
	logger logger.Logger
	tracer trace.Tracer
}

type Option func(*Registry)

// WithCache puts c in front of LookupByNamespace.
func WithCache(c Cache) Option {
	return func(r *Registry) {
		r.cache = c
	}
}

func New(p ConnPool, log logger.Logger, opts ...Option) *Registry {
	r := &Registry{
		pool:   p,
		logger: log,
		tracer: otel.Tracer("vectorshard/registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insert records p. A namespace that is already present yields
// AlreadyExists, not an error; the stored placement is left untouched.
func (r *Registry) Insert(ctx context.Context, p Placement) (InsertResult, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	ctx, span := r.tracer.Start(ctx, "registry.Insert", trace.WithAttributes(
		attribute.String("namespace", p.Namespace),
		attribute.String("index", p.IndexName),
		attribute.String("project", p.Project),
	))
	defer span.End()

	_, err := withConn(ctx, r.pool, func(db *gorm.DB) (struct{}, error) {
		return struct{}{}, db.Exec(insertPlacementSQL, p.Namespace, p.IndexName, p.Project).Error
	})
	switch {
	case err == nil:
		r.cacheSet(ctx, p)
		span.SetAttributes(attribute.String("result", Inserted.String()))
		return Inserted, nil
	case errors.Is(database.TranslateError(err), database.ErrDuplicateKey):
		r.logger.InfoWithContext(ctx, "namespace already placed", nil, map[string]interface{}{
			"namespace": p.Namespace,
		})
		span.SetAttributes(attribute.String("result", AlreadyExists.String()))
		return AlreadyExists, nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		r.logger.ErrorWithContext(ctx, "failed to insert placement", err, map[string]interface{}{
			"namespace": p.Namespace,
			"index":     p.IndexName,
			"project":   p.Project,
		})
		return 0, datastoreError("insert placement", err)
	}
}

// LookupByNamespace returns the placement of namespace or ErrNotFound.
func (r *Registry) LookupByNamespace(ctx context.Context, namespace string) (Placement, error) {
	if namespace == "" {
		return Placement{}, Placement{}.Validate()
	}

	if p, ok := r.cacheGet(ctx, namespace); ok {
		return p, nil
	}

	p, err := r.lookup(ctx, selectByNamespace, namespace)
	if err != nil {
		return Placement{}, err
	}
	r.cacheSet(ctx, p)
	return p, nil
}

// LookupByIndex returns one placement stored on index (the first by
// namespace order) or ErrNotFound.
func (r *Registry) LookupByIndex(ctx context.Context, index string) (Placement, error) {
	return r.lookup(ctx, selectByIndex, index)
}

func (r *Registry) lookup(ctx context.Context, query string, arg string) (Placement, error) {
	rows, err := withConn(ctx, r.pool, func(db *gorm.DB) ([]Placement, error) {
		var rows []Placement
		err := db.Raw(query, arg).Scan(&rows).Error
		return rows, err
	})
	if err != nil {
		return Placement{}, datastoreError("lookup placement", err)
	}
	if len(rows) == 0 {
		return Placement{}, ErrNotFound
	}
	return rows[0], nil
}

func (r *Registry) cacheGet(ctx context.Context, namespace string) (Placement, bool) {
	if r.cache == nil {
		return Placement{}, false
	}
	p, ok, err := r.cache.Get(ctx, namespace)
	if err != nil {
		r.logger.WarnWithContext(ctx, "placement cache read failed", err, map[string]interface{}{
			"namespace": namespace,
		})
		return Placement{}, false
	}
	return p, ok
}

func (r *Registry) cacheSet(ctx context.Context, p Placement) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, p); err != nil {
		r.logger.WarnWithContext(ctx, "placement cache write failed", err, map[string]interface{}{
			"namespace": p.Namespace,
		})
	}
}
