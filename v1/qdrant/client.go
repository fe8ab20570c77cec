package qdrant

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// api is the subset of *qdrant.Client the backend uses.
type api interface {
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	ListCollections(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	Facet(ctx context.Context, request *qdrant.FacetCounts) ([]*qdrant.FacetHit, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// Backend is the vectordb.Backend of one Qdrant project. Indexes are
// collections, namespaces are the keyword payload field "namespace".
type Backend struct {
	api     api
	project string
	cfg     Config
	logger  logger.Logger
}

const (
	defaultBatchSize = 200 // points per upsert request

	payloadNamespace = "namespace"
	payloadRecordID  = "record_id"
	payloadText      = "text"
	payloadMetadata  = "metadata"
)

// NewBackend opens a connection to project and validates it with a health
// check, so an unreachable or misconfigured project fails at start-up.
func NewBackend(project ProjectConfig, cfg Config, log logger.Logger) (*Backend, error) {
	cfg = cfg.withDefaults()

	apiKey, err := project.ResolveAPIKey()
	if err != nil {
		return nil, err
	}

	port := project.Port
	if port == 0 {
		port = DefaultPort
	}

	log.Info("[Qdrant] connecting", nil, map[string]interface{}{
		"project":  project.Name,
		"endpoint": project.Endpoint,
		"port":     port,
	})

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   project.Endpoint,
		Port:                   port,
		APIKey:                 apiKey,
		UseTLS:                 project.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client for project %q: %w", project.Name, err)
	}

	b := newBackend(client, project.Name, cfg, log)
	if err := b.healthCheck(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return b, nil
}

func newBackend(a api, project string, cfg Config, log logger.Logger) *Backend {
	return &Backend{api: a, project: project, cfg: cfg.withDefaults(), logger: log}
}

func (b *Backend) healthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.ConnectTimeout)
	defer cancel()

	resp, err := b.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] health check failed for project %q: %w", b.project, classify(err))
	}

	b.logger.Info("[Qdrant] health check passed", nil, map[string]interface{}{
		"project": b.project,
		"title":   resp.GetTitle(),
		"version": resp.GetVersion(),
	})
	return nil
}

// Project returns the project tag this backend serves.
func (b *Backend) Project() string {
	return b.project
}

func (b *Backend) Close() error {
	b.logger.Info("[Qdrant] closing client", nil, map[string]interface{}{"project": b.project})
	return b.api.Close()
}
