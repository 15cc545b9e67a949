package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pipeline-io/opensearch-sink/internal/adapter"
)

var validate = validator.New()

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logIH.Error("Error encoding response: ", "error", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logIH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logIH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// streamEncoder serializes NDJSON writes coming from the response loop and
// the decode goroutine (which emits synthetic failures for bad lines).
type streamEncoder struct {
	mu      sync.Mutex
	encoder *json.Encoder
	flusher http.Flusher
}

func newStreamEncoder(w http.ResponseWriter) *streamEncoder {
	flusher, _ := w.(http.Flusher)
	return &streamEncoder{
		encoder: json.NewEncoder(w),
		flusher: flusher,
	}
}

func (e *streamEncoder) Write(v interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.encoder.Encode(v); err != nil {
		logIH.Error("Error encoding stream response: ", "error", err)
		return
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
}
