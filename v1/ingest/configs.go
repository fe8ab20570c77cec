package ingest

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/retry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

const (
	DefaultChunkSize        = 512
	DefaultChunkOverlap     = 50
	DefaultEmbedBatchSize   = 64
	DefaultParallelism      = 4
	DefaultFetchTimeout     = 30 * time.Second
	DefaultMaxDocumentBytes = 50 << 20
	DefaultTopK             = 30
)

// Config tunes the document pipeline.
type Config struct {
	// Splitter window in characters.
	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`

	// Chunks per embed+upsert unit, and how many units run at once.
	EmbedBatchSize int `yaml:"embed_batch_size" koanf:"embed_batch_size"`
	Parallelism    int `yaml:"parallelism" koanf:"parallelism"`

	FetchTimeout     time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	MaxDocumentBytes int64         `yaml:"max_document_bytes" koanf:"max_document_bytes"`

	// Matches returned when a query does not ask for a number.
	DefaultTopK int `yaml:"default_top_k" koanf:"default_top_k"`

	// Upsert retry on transient backend errors.
	Retry retry.Config `yaml:"retry" koanf:"retry"`
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:        DefaultChunkSize,
		ChunkOverlap:     DefaultChunkOverlap,
		EmbedBatchSize:   DefaultEmbedBatchSize,
		Parallelism:      DefaultParallelism,
		FetchTimeout:     DefaultFetchTimeout,
		MaxDocumentBytes: DefaultMaxDocumentBytes,
		DefaultTopK:      DefaultTopK,
		Retry:            retry.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", vectordb.ErrInvalidConfiguration)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size)", vectordb.ErrInvalidConfiguration)
	}
	if c.EmbedBatchSize <= 0 || c.Parallelism <= 0 {
		return fmt.Errorf("%w: embed_batch_size and parallelism must be positive", vectordb.ErrInvalidConfiguration)
	}
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("%w: max_document_bytes must be positive", vectordb.ErrInvalidConfiguration)
	}
	if c.DefaultTopK <= 0 {
		return fmt.Errorf("%w: default_top_k must be positive", vectordb.ErrInvalidConfiguration)
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("%w: ingest retry: %w", vectordb.ErrInvalidConfiguration, err)
	}
	return nil
}
