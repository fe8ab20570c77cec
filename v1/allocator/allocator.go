package allocator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/retry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Registry is the part of registry.Registry the allocator needs.
type Registry interface {
	Insert(ctx context.Context, p registry.Placement) (registry.InsertResult, error)
	LookupByNamespace(ctx context.Context, namespace string) (registry.Placement, error)
}

// Allocator assigns namespaces to indexes with spare capacity, first-fit in
// project order then backend listing order, and records the assignment in
// the registry.
type Allocator struct {
	cfg      Config
	projects vectordb.Projects
	registry Registry
	logger   logger.Logger
	recorder Recorder
	tracer   trace.Tracer
	newName  func() string
	retry    []retry.Option

	inflight singleflight.Group
}

type Option func(*Allocator)

func WithRecorder(r Recorder) Option {
	return func(a *Allocator) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithNameGenerator replaces the random index name source.
func WithNameGenerator(fn func() string) Option {
	return func(a *Allocator) {
		if fn != nil {
			a.newName = fn
		}
	}
}

// WithRetryOptions is appended to every backend retry, e.g. a fake timer.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(a *Allocator) {
		a.retry = append(a.retry, opts...)
	}
}

func New(cfg Config, projects vectordb.Projects, reg Registry, log logger.Logger, opts ...Option) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := projects.Validate(); err != nil {
		return nil, err
	}

	a := &Allocator{
		cfg:      cfg,
		projects: projects,
		registry: reg,
		logger:   log,
		recorder: nopRecorder{},
		tracer:   otel.Tracer("vectorshard/allocator"),
	}
	a.newName = func() string {
		return cfg.IndexPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Place returns the placement of namespace, allocating one if it has none.
//
// Concurrent calls for the same namespace share one allocation. The
// allocation is detached from ctx: a caller that gives up gets ctx.Err()
// while the allocation runs to completion or exhaustion.
func (a *Allocator) Place(ctx context.Context, namespace string) (registry.Placement, error) {
	if namespace == "" {
		return registry.Placement{}, fmt.Errorf("%w: namespace must not be empty", vectordb.ErrInvalidConfiguration)
	}

	ch := a.inflight.DoChan(namespace, func() (interface{}, error) {
		return a.place(context.WithoutCancel(ctx), namespace)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return registry.Placement{}, res.Err
		}
		return res.Val.(registry.Placement), nil
	case <-ctx.Done():
		return registry.Placement{}, ctx.Err()
	}
}

func (a *Allocator) place(ctx context.Context, namespace string) (p registry.Placement, err error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "allocator.Place", trace.WithAttributes(
		attribute.String("namespace", namespace),
	))
	outcome := OutcomeError
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("outcome", outcome), attribute.String("project", p.Project))
		span.End()
		a.recorder.PlacementObserved(outcome, p.Project, time.Since(start))
	}()

	existing, err := a.registry.LookupByNamespace(ctx, namespace)
	switch {
	case err == nil:
		outcome = OutcomeExisting
		return existing, nil
	case !registry.IsNotFound(err):
		return registry.Placement{}, fmt.Errorf("lookup of namespace %q: %w", namespace, err)
	}

	for _, project := range a.projects {
		index, ok, err := a.selectIndex(ctx, namespace, project)
		if err != nil {
			a.logger.ErrorWithContext(ctx, "index selection failed", err, map[string]interface{}{
				"namespace": namespace,
				"project":   project.Name,
			})
			return registry.Placement{}, fmt.Errorf("project %q: %w", project.Name, err)
		}
		if !ok {
			a.logger.WarnWithContext(ctx, "project exhausted, trying next", nil, map[string]interface{}{
				"namespace": namespace,
				"project":   project.Name,
			})
			a.recorder.ProjectExhausted(project.Name)
			continue
		}

		placed, reconciled, err := a.commit(ctx, registry.Placement{
			Namespace: namespace,
			IndexName: index,
			Project:   project.Name,
		})
		if err != nil {
			return registry.Placement{}, err
		}
		outcome = OutcomePlaced
		if reconciled {
			outcome = OutcomeReconciled
		}
		return placed, nil
	}

	outcome = OutcomeExhausted
	a.logger.ErrorWithContext(ctx, "all projects exhausted", ErrCapacityExhausted, map[string]interface{}{
		"namespace": namespace,
		"projects":  len(a.projects),
	})
	return registry.Placement{}, fmt.Errorf("%w: %d projects full, namespace %q not placed",
		ErrCapacityExhausted, len(a.projects), namespace)
}

// selectIndex applies first-fit within one project. ok is false when the
// project has no room and may not create another index.
func (a *Allocator) selectIndex(ctx context.Context, namespace string, project vectordb.Project) (string, bool, error) {
	indexes, err := retry.DoWithData(ctx, a.cfg.Retry, project.Backend.ListIndexes, a.retryOptions(namespace, project.Name, "list indexes")...)
	if err != nil {
		return "", false, fmt.Errorf("list indexes: %w", err)
	}

	if len(indexes) == 0 {
		index, err := a.createIndex(ctx, namespace, project, indexes)
		return index, err == nil, err
	}

	for _, index := range indexes {
		stats, err := retry.DoWithData(ctx, a.cfg.Retry, func(ctx context.Context) (*vectordb.IndexStats, error) {
			return project.Backend.DescribeIndex(ctx, index)
		}, a.retryOptions(namespace, project.Name, "describe index")...)
		if errors.Is(err, vectordb.ErrIndexNotFound) {
			// listed but gone by now
			a.logger.WarnWithContext(ctx, "listed index not found, skipping", err, map[string]interface{}{
				"project": project.Name,
				"index":   index,
			})
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("describe index %q: %w", index, err)
		}
		if stats.NamespaceCount < a.cfg.NamespacesPerIndex {
			a.logger.DebugWithContext(ctx, "index has room", nil, map[string]interface{}{
				"namespace":  namespace,
				"project":    project.Name,
				"index":      index,
				"namespaces": stats.NamespaceCount,
			})
			return index, true, nil
		}
	}

	if len(indexes) < a.cfg.IndexesPerProject {
		index, err := a.createIndex(ctx, namespace, project, indexes)
		return index, err == nil, err
	}
	return "", false, nil
}

// createIndex creates an index under a random name not in existing.
func (a *Allocator) createIndex(ctx context.Context, namespace string, project vectordb.Project, existing []string) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	for attempt := 1; attempt <= a.cfg.NameAttempts; attempt++ {
		name := a.newName()
		if _, dup := taken[name]; dup {
			a.logger.DebugWithContext(ctx, "generated index name collides, regenerating", nil, map[string]interface{}{
				"project": project.Name,
				"index":   name,
				"attempt": attempt,
			})
			continue
		}

		calls := 0
		id, err := retry.DoWithData(ctx, a.cfg.Retry, func(ctx context.Context) (string, error) {
			calls++
			id, err := project.Backend.CreateIndex(ctx, a.cfg.indexSpec(name))
			if errors.Is(err, vectordb.ErrIndexExists) && calls > 1 {
				// an earlier timed-out call went through
				return name, nil
			}
			return id, err
		}, a.retryOptions(namespace, project.Name, "create index")...)

		if errors.Is(err, vectordb.ErrIndexExists) {
			taken[name] = struct{}{}
			a.logger.WarnWithContext(ctx, "index name taken on backend, regenerating", err, map[string]interface{}{
				"project": project.Name,
				"index":   name,
				"attempt": attempt,
			})
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create index %q: %w", name, err)
		}

		a.recorder.IndexCreated(project.Name)
		a.logger.InfoWithContext(ctx, "created index", nil, map[string]interface{}{
			"namespace": namespace,
			"project":   project.Name,
			"index":     id,
		})
		return id, nil
	}

	return "", fmt.Errorf("%w: project %q, %d attempts", ErrNameCollision, project.Name, a.cfg.NameAttempts)
}

// commit records p. When another allocator won the race the stored
// placement is returned with reconciled set.
func (a *Allocator) commit(ctx context.Context, p registry.Placement) (registry.Placement, bool, error) {
	res, err := a.registry.Insert(ctx, p)
	if err != nil {
		return registry.Placement{}, false, fmt.Errorf("record placement of %q: %w", p.Namespace, err)
	}
	if res == registry.Inserted {
		a.logger.InfoWithContext(ctx, "namespace placed", nil, map[string]interface{}{
			"namespace": p.Namespace,
			"project":   p.Project,
			"index":     p.IndexName,
		})
		return p, false, nil
	}

	winner, err := a.registry.LookupByNamespace(ctx, p.Namespace)
	if err != nil {
		return registry.Placement{}, false, fmt.Errorf("resolve concurrent placement of %q: %w", p.Namespace, err)
	}
	a.logger.InfoWithContext(ctx, "namespace placed concurrently, using stored placement", nil, map[string]interface{}{
		"namespace":     p.Namespace,
		"project":       winner.Project,
		"index":         winner.IndexName,
		"dropped_index": p.IndexName,
	})
	return winner, true, nil
}

func (a *Allocator) retryOptions(namespace, project, op string) []retry.Option {
	opts := []retry.Option{
		retry.WithRetryable(vectordb.IsTransient),
		retry.WithNotify(func(attempt int, err error, next time.Duration) {
			a.logger.Warn("backend call failed, retrying", err, map[string]interface{}{
				"operation": op,
				"namespace": namespace,
				"project":   project,
				"attempt":   attempt,
				"next":      next.String(),
			})
		}),
	}
	return append(opts, a.retry...)
}
