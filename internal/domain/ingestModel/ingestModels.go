package ingestModel

import (
	"context"
	"time"
)

type IngestionStatus string

const (
	StatusIndexed IngestionStatus = "INDEXED"
	StatusFailed  IngestionStatus = "FAILED"
)

// IngestionRecord is the last known outcome for an ingestion request,
// persisted so callers can poll /status/{requestId} after the fact.
type IngestionRecord struct {
	RequestID   string          `json:"request_id"`
	DocumentID  string          `json:"document_id"`
	IndexName   string          `json:"index_name"`
	TraceID     string          `json:"trace_id"`
	Status      IngestionStatus `json:"status"`
	Message     string          `json:"message"`
	ReceivedAt  time.Time       `json:"received_at"`
	CompletedAt time.Time       `json:"completed_at,omitempty"`
}

type RecordStore interface {
	SaveRecord(ctx context.Context, record IngestionRecord) error
	GetRecord(ctx context.Context, requestID string) (IngestionRecord, bool)
	DeleteRecord(ctx context.Context, requestID string)
}
