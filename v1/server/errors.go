package server

import (
	"errors"
	"net/http"

	"github.com/Aleph-Alpha/vectorshard/v1/allocator"
	"github.com/Aleph-Alpha/vectorshard/v1/ingest"
	"github.com/Aleph-Alpha/vectorshard/v1/pool"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/labstack/echo/v4"
)

// statusFor maps a pipeline error to the HTTP status returned to clients.
func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, ingest.ErrInvalidInput),
		errors.Is(err, ingest.ErrNoChunks),
		errors.Is(err, ingest.ErrFetchFailed),
		errors.Is(err, ingest.ErrDocumentTooLarge),
		errors.Is(err, vectordb.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, allocator.ErrCapacityExhausted),
		errors.Is(err, pool.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// errorHandler writes every failed request as {"success": false, "error": ...}.
// Server errors are logged and their details withheld.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusFor(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.ErrorWithContext(c.Request().Context(), "request failed", err, map[string]interface{}{
			"route":  c.Path(),
			"status": status,
		})
		if status == http.StatusInternalServerError {
			msg = "an unexpected error occurred"
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorResponse{Error: msg})
	}
	if writeErr != nil {
		s.logger.Warn("failed to write error response", writeErr)
	}
}
