package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps client errors onto the vectordb sentinels so callers can
// decide on retries with errors.Is. The gRPC error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var exhausted *qdrant.QdrantResourceExhaustedError
	if errors.As(err, &exhausted) {
		return fmt.Errorf("%w: %w", vectordb.ErrTransient, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", vectordb.ErrTransient, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return fmt.Errorf("%w: %w", vectordb.ErrTransient, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %w", vectordb.ErrIndexExists, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %w", vectordb.ErrIndexNotFound, err)
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %w", vectordb.ErrInvalidConfiguration, err)
	case codes.InvalidArgument:
		// Older servers answer a duplicate create with InvalidArgument.
		msg := strings.ToLower(st.Message())
		if strings.Contains(msg, "already exists") {
			return fmt.Errorf("%w: %w", vectordb.ErrIndexExists, err)
		}
		if missingCollection(msg) {
			return fmt.Errorf("%w: %w", vectordb.ErrIndexNotFound, err)
		}
	}
	return err
}

// missingCollection matches answers about an unknown collection. A missing
// payload index ("Index required but not found") is not one of them.
func missingCollection(msg string) bool {
	if !strings.Contains(msg, "collection") {
		return false
	}
	return strings.Contains(msg, "not found") || strings.Contains(msg, "doesn't exist")
}
