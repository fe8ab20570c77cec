package embedding

import (
	"context"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"go.uber.org/fx"
)

// FXModule provides *Client. Config is supplied by the application.
var FXModule = fx.Module("embedding",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterEmbeddingLifecycle),
)

type EmbeddingParams struct {
	fx.In

	Config Config
	Logger logger.Logger
}

func NewClientWithDI(params EmbeddingParams) (*Client, error) {
	return NewClient(params.Config, params.Logger)
}

// RegisterEmbeddingLifecycle releases idle connections on shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
