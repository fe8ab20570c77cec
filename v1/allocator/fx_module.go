package allocator

import (
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule provides *Allocator from the configured projects and registry.
var FXModule = fx.Module("allocator",
	fx.Provide(NewAllocatorWithDI),
)

type AllocatorParams struct {
	fx.In

	Config   Config
	Projects vectordb.Projects
	Registry *registry.Registry
	Logger   logger.Logger
	Recorder Recorder `optional:"true"`
}

func NewAllocatorWithDI(p AllocatorParams) (*Allocator, error) {
	return New(p.Config, p.Projects, p.Registry, p.Logger, WithRecorder(p.Recorder))
}
