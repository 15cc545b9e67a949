package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pipeline-io/opensearch-sink/internal/adapter"
	"github.com/pipeline-io/opensearch-sink/internal/adapter/utils"
	"github.com/pipeline-io/opensearch-sink/internal/api"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
	"github.com/pipeline-io/opensearch-sink/internal/domain/ingestModel"
	"github.com/pipeline-io/opensearch-sink/internal/metrics"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

// SchemaManager is the administration boundary consumed by the orchestrator.
type SchemaManager interface {
	DetermineIndexName(docType string) string
	EnsureIndex(ctx context.Context, indexName string, vectorDims int) error
}

// BulkWriter is the engine-write boundary. Write is the immediate
// single-batch path; Submit rides the background accumulator.
type BulkWriter interface {
	Write(ctx context.Context, ops []docModel.BulkOperation) (docModel.BulkResult, error)
	Submit(ctx context.Context, op docModel.BulkOperation) (docModel.ItemResult, error)
}

type Service struct {
	schema  SchemaManager
	writer  BulkWriter
	records ingestModel.RecordStore
	logger  *logger_i.Logger
}

func NewService(schema SchemaManager, writer BulkWriter, records ingestModel.RecordStore) *Service {
	return &Service{
		schema:  schema,
		writer:  writer,
		records: records,
		logger:  logger_i.NewLogger("IngestService"),
	}
}

// ProcessSingle is the single-document path. The original document is echoed
// back on every attempted processing so callers can retry without
// resupplying the payload; only the missing-document rejection omits it.
func (s *Service) ProcessSingle(ctx context.Context, request api.ProcessRequest) api.ProcessResponse {
	if request.Document == nil {
		return api.ProcessResponse{
			Success:       false,
			ProcessorLogs: []string{"No document provided in request"},
		}
	}

	ingestionResponse := s.processRequest(ctx, api.IngestionRequest{
		RequestID: utils.GetNewUUID(),
		Document:  request.Document,
	}, false)

	return api.ProcessResponse{
		Success:       ingestionResponse.Success,
		ProcessorLogs: []string{ingestionResponse.Message},
		OutputDoc:     request.Document,
	}
}

// StreamIngest processes an unbounded request stream. Each request runs its
// own chain; responses arrive in completion order, one per request, and a
// failing request never disturbs its siblings or the stream.
func (s *Service) StreamIngest(ctx context.Context, requests <-chan api.IngestionRequest) <-chan api.IngestionResponse {
	responses := make(chan api.IngestionResponse)

	go func() {
		var wg sync.WaitGroup
		for request := range requests {
			wg.Add(1)
			metrics.IncrementStreamInFlight()
			go func(r api.IngestionRequest) {
				defer wg.Done()
				defer metrics.DecrementStreamInFlight()
				responses <- s.processRequest(ctx, r, true)
			}(request)
		}
		wg.Wait()
		close(responses)
	}()

	return responses
}

func (s *Service) processRequest(ctx context.Context, request api.IngestionRequest, buffered bool) api.IngestionResponse {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "requestId", request.RequestID)
	receivedAt := time.Now()

	if request.Document == nil {
		return s.finishRequest(ctx, request, receivedAt, "", false, "Ingestion request has no document.")
	}

	doc := request.Document
	indexName := s.schema.DetermineIndexName(doc.DocumentType)
	log = log.With("documentId", doc.ID, "index", indexName)

	vectorDims, err := adapter.EmbeddingDimensions(doc)
	if err != nil {
		log.Error("Rejecting document", "error", err)
		return s.finishRequest(ctx, request, receivedAt, indexName, false, fmt.Sprintf("Processing failed: %s", err))
	}

	if err := s.schema.EnsureIndex(ctx, indexName, vectorDims); err != nil {
		log.Error("Failed to ensure index", "error", err)
		return s.finishRequest(ctx, request, receivedAt, indexName, false, fmt.Sprintf("Processing failed: %s", err))
	}

	searchDoc := adapter.ToSearchDocument(doc)
	op := docModel.BulkOperation{IndexName: indexName, Document: searchDoc}

	var item docModel.ItemResult
	if buffered {
		item, err = s.writer.Submit(ctx, op)
	} else {
		var result docModel.BulkResult
		result, err = s.writer.Write(ctx, []docModel.BulkOperation{op})
		if err == nil {
			if len(result.Items) > 0 {
				item = result.Items[0]
			} else {
				item = docModel.ItemResult{DocID: searchDoc.OriginalDocID, Success: !result.Errors}
			}
		}
	}

	if err != nil {
		log.Error("Bulk write failed", "error", err)
		return s.finishRequest(ctx, request, receivedAt, indexName, false, fmt.Sprintf("Processing failed: %s", err))
	}

	if !item.Success {
		log.Warn("Bulk request had errors for document", "itemError", item.Error)
		return s.finishRequest(ctx, request, receivedAt, indexName, false, fmt.Sprintf("Bulk operation completed with errors: %s", item.Error))
	}

	log.Debug("Successfully indexed document")
	return s.finishRequest(ctx, request, receivedAt, indexName, true, "Document indexed successfully.")
}

func (s *Service) finishRequest(ctx context.Context, request api.IngestionRequest, receivedAt time.Time, indexName string, success bool, message string) api.IngestionResponse {
	docID := ""
	if request.Document != nil {
		docID = request.Document.ID
	}

	metrics.CaptureDocumentResult(indexName, success)

	status := ingestModel.StatusIndexed
	if !success {
		status = ingestModel.StatusFailed
	}
	traceID, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	record := ingestModel.IngestionRecord{
		RequestID:   request.RequestID,
		DocumentID:  docID,
		IndexName:   indexName,
		TraceID:     traceID,
		Status:      status,
		Message:     message,
		ReceivedAt:  receivedAt,
		CompletedAt: time.Now(),
	}
	if err := s.records.SaveRecord(ctx, record); err != nil {
		s.logger.Error("Failed to save ingestion record", "requestId", request.RequestID, "error", err)
	}

	return api.IngestionResponse{
		RequestID:  request.RequestID,
		DocumentID: docID,
		Success:    success,
		Message:    message,
	}
}

// Record returns the persisted outcome for a request id.
func (s *Service) Record(ctx context.Context, requestID string) (ingestModel.IngestionRecord, bool) {
	return s.records.GetRecord(ctx, requestID)
}
