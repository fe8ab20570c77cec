package allocator

import (
	"fmt"
	"regexp"

	"github.com/Aleph-Alpha/vectorshard/v1/retry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

const (
	DefaultNamespacesPerIndex = 24999
	DefaultIndexesPerProject  = 20
	DefaultDimension          = 768
	DefaultNameAttempts       = 5
	DefaultIndexPrefix        = "index-"
)

// Config holds the capacity ceilings and the shape of created indexes.
type Config struct {
	// NamespacesPerIndex is the soft ceiling of namespaces per index.
	NamespacesPerIndex int `yaml:"namespaces_per_index" koanf:"namespaces_per_index"`

	// IndexesPerProject is the hard ceiling of indexes a project may own.
	IndexesPerProject int `yaml:"indexes_per_project" koanf:"indexes_per_project"`

	Dimension int             `yaml:"dimension" koanf:"dimension"`
	Metric    vectordb.Metric `yaml:"metric" koanf:"metric"`

	// NameAttempts bounds the random names tried for one new index.
	NameAttempts int `yaml:"name_attempts" koanf:"name_attempts"`

	// IndexPrefix starts every generated index name.
	IndexPrefix string `yaml:"index_prefix" koanf:"index_prefix"`

	// Retry applies to backend list, describe and create calls.
	Retry retry.Config `yaml:"retry" koanf:"retry"`
}

func DefaultConfig() Config {
	return Config{
		NamespacesPerIndex: DefaultNamespacesPerIndex,
		IndexesPerProject:  DefaultIndexesPerProject,
		Dimension:          DefaultDimension,
		Metric:             vectordb.Cosine,
		NameAttempts:       DefaultNameAttempts,
		IndexPrefix:        DefaultIndexPrefix,
		Retry:              retry.DefaultConfig(),
	}
}

var indexPrefixPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validate fails with vectordb.ErrInvalidConfiguration on values no
// allocation could succeed with.
func (c Config) Validate() error {
	switch {
	case c.NamespacesPerIndex <= 0:
		return fmt.Errorf("%w: namespaces_per_index must be positive, got %d", vectordb.ErrInvalidConfiguration, c.NamespacesPerIndex)
	case c.IndexesPerProject <= 0:
		return fmt.Errorf("%w: indexes_per_project must be positive, got %d", vectordb.ErrInvalidConfiguration, c.IndexesPerProject)
	case c.NameAttempts <= 0:
		return fmt.Errorf("%w: name_attempts must be positive, got %d", vectordb.ErrInvalidConfiguration, c.NameAttempts)
	case !indexPrefixPattern.MatchString(c.IndexPrefix):
		return fmt.Errorf("%w: index_prefix %q must be lower-case alphanumeric or '-'", vectordb.ErrInvalidConfiguration, c.IndexPrefix)
	}
	if err := c.indexSpec(c.IndexPrefix + "00000000").Validate(); err != nil {
		return err
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", vectordb.ErrInvalidConfiguration, err)
	}
	return nil
}

func (c Config) indexSpec(name string) vectordb.IndexSpec {
	return vectordb.IndexSpec{Name: name, Dimension: c.Dimension, Metric: c.Metric}
}
