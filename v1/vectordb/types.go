package vectordb

import "fmt"

// Metric is the similarity function of an index.
type Metric string

const (
	Cosine    Metric = "cosine"
	Euclidean Metric = "euclidean"
	Dot       Metric = "dot"
)

// IndexSpec describes an index to create.
type IndexSpec struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    Metric `json:"metric"`
}

func (s IndexSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: index name must not be empty", ErrInvalidConfiguration)
	}
	if s.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfiguration, s.Dimension)
	}
	switch s.Metric {
	case Cosine, Euclidean, Dot:
	default:
		return fmt.Errorf("%w: unsupported metric %q", ErrInvalidConfiguration, s.Metric)
	}
	return nil
}

// IndexStats is the result of DescribeIndex.
type IndexStats struct {
	Name           string `json:"name"`
	Dimension      int    `json:"dimension"`
	NamespaceCount int    `json:"namespaceCount"`
	VectorCount    uint64 `json:"vectorCount"`
}

// Record is one embedded chunk.
type Record struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryRequest is a nearest-neighbour lookup restricted to one namespace.
type QueryRequest struct {
	Index     string    `json:"index"`
	Namespace string    `json:"namespace"`
	Vector    []float32 `json:"vector"`
	TopK      int       `json:"topK"`
}

// Match is one query hit.
type Match struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
