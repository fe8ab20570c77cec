package qdrant

import (
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
)

func toDistance(m vectordb.Metric) (qdrant.Distance, error) {
	switch m {
	case vectordb.Cosine:
		return qdrant.Distance_Cosine, nil
	case vectordb.Euclidean:
		return qdrant.Distance_Euclid, nil
	case vectordb.Dot:
		return qdrant.Distance_Dot, nil
	default:
		return qdrant.Distance_UnknownDistance, fmt.Errorf("%w: unsupported metric %q", vectordb.ErrInvalidConfiguration, m)
	}
}

// pointID derives a stable UUID from namespace and record id, so re-ingesting
// the same document overwrites its points instead of duplicating them.
func pointID(namespace, recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+"/"+recordID)).String()
}

func toPoints(namespace string, records []vectordb.Record) ([]*qdrant.PointStruct, error) {
	points := make([]*qdrant.PointStruct, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", vectordb.ErrInvalidConfiguration, i)
		}
		if len(r.Vector) == 0 {
			return nil, fmt.Errorf("%w: record %q has no vector", vectordb.ErrInvalidConfiguration, r.ID)
		}

		payload := map[string]any{
			payloadNamespace: namespace,
			payloadRecordID:  r.ID,
			payloadText:      r.Text,
		}
		if len(r.Metadata) > 0 {
			payload[payloadMetadata] = r.Metadata
		}
		values, err := qdrant.TryValueMap(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: record %q has an unsupported metadata value: %w",
				vectordb.ErrInvalidConfiguration, r.ID, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(namespace, r.ID)),
			Vectors: qdrant.NewVectorsDense(r.Vector),
			Payload: values,
		})
	}
	return points, nil
}

func validateQuery(req vectordb.QueryRequest) error {
	switch {
	case req.Index == "":
		return fmt.Errorf("%w: index name cannot be empty", vectordb.ErrInvalidConfiguration)
	case req.Namespace == "":
		return fmt.Errorf("%w: namespace cannot be empty", vectordb.ErrInvalidConfiguration)
	case len(req.Vector) == 0:
		return fmt.Errorf("%w: vector cannot be empty", vectordb.ErrInvalidConfiguration)
	case req.TopK <= 0:
		return fmt.Errorf("%w: topK must be greater than 0", vectordb.ErrInvalidConfiguration)
	}
	return nil
}

func toMatches(resp []*qdrant.ScoredPoint) ([]vectordb.Match, error) {
	matches := make([]vectordb.Match, 0, len(resp))
	for _, r := range resp {
		payload := convertPayload(r.GetPayload())

		id, _ := payload[payloadRecordID].(string)
		if id == "" {
			var err error
			if id, err = extractPointID(r.GetId()); err != nil {
				return nil, err
			}
		}
		text, _ := payload[payloadText].(string)
		meta, _ := payload[payloadMetadata].(map[string]any)

		matches = append(matches, vectordb.Match{
			ID:       id,
			Score:    r.GetScore(),
			Text:     text,
			Metadata: meta,
		})
	}
	return matches, nil
}

func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("[Qdrant] nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("[Qdrant] unexpected PointId type: %T", v)
	}
}

func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

// extractValue recursively converts a Value to a Go native type.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}

// extractVectorDetails returns the dimension and distance of a collection
// with a single unnamed vector, or (0, "") for anything else.
func extractVectorDetails(info *qdrant.CollectionInfo) (int, string) {
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return 0, ""
	}
	return int(params.GetSize()), params.GetDistance().String()
}

// countNamespaces counts facet values that hold at least one point.
func countNamespaces(hits []*qdrant.FacetHit) int {
	n := 0
	for _, h := range hits {
		if h.GetCount() > 0 && h.GetValue().GetStringValue() != "" {
			n++
		}
	}
	return n
}
