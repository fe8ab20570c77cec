package qdrant

import (
	"context"
	"errors"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule opens one Backend per configured project and provides them as
// the ordered vectordb.Projects list.
var FXModule = fx.Module("qdrant",
	fx.Provide(NewProjectsWithDI),
)

type QdrantParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    logger.Logger
}

func NewProjectsWithDI(p QdrantParams) (vectordb.Projects, error) {
	projects, backends, err := NewProjects(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var errs []error
			for _, b := range backends {
				errs = append(errs, b.Close())
			}
			return errors.Join(errs...)
		},
	})
	return projects, nil
}

// NewProjects connects every project in configuration order. A failure
// closes the backends opened so far.
func NewProjects(cfg Config, log logger.Logger) (vectordb.Projects, []*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	projects := make(vectordb.Projects, 0, len(cfg.Projects))
	backends := make([]*Backend, 0, len(cfg.Projects))
	for _, pc := range cfg.Projects {
		b, err := NewBackend(pc, cfg, log)
		if err != nil {
			for _, opened := range backends {
				_ = opened.Close()
			}
			return nil, nil, err
		}
		backends = append(backends, b)
		projects = append(projects, vectordb.Project{Name: pc.Name, Backend: b})
	}
	return projects, backends, nil
}
