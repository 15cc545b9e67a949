package ingest_test

import (
	"context"
	"strings"
	"sync"

	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
	"github.com/pipeline-io/opensearch-sink/internal/domain/ingestModel"
)

// MockSchemaManager implements ingest.SchemaManager
type MockSchemaManager struct {
	// Control fields to simulate different behaviors
	OnDetermineIndexName func(docType string) string
	OnEnsureIndex        func(ctx context.Context, indexName string, vectorDims int) error

	mu          sync.Mutex
	EnsureCalls []string
}

func (m *MockSchemaManager) DetermineIndexName(docType string) string {
	if m.OnDetermineIndexName != nil {
		return m.OnDetermineIndexName(docType)
	}
	return "pipeline-" + strings.ToLower(docType)
}

func (m *MockSchemaManager) EnsureIndex(ctx context.Context, indexName string, vectorDims int) error {
	m.mu.Lock()
	m.EnsureCalls = append(m.EnsureCalls, indexName)
	m.mu.Unlock()
	if m.OnEnsureIndex != nil {
		return m.OnEnsureIndex(ctx, indexName, vectorDims)
	}
	return nil
}

func (m *MockSchemaManager) EnsureCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.EnsureCalls)
}

// MockBulkWriter implements ingest.BulkWriter
type MockBulkWriter struct {
	OnWrite  func(ctx context.Context, ops []docModel.BulkOperation) (docModel.BulkResult, error)
	OnSubmit func(ctx context.Context, op docModel.BulkOperation) (docModel.ItemResult, error)
}

func (m *MockBulkWriter) Write(ctx context.Context, ops []docModel.BulkOperation) (docModel.BulkResult, error) {
	if m.OnWrite != nil {
		return m.OnWrite(ctx, ops)
	}
	result := docModel.BulkResult{}
	for _, op := range ops {
		result.Items = append(result.Items, docModel.ItemResult{
			DocID:   op.Document.OriginalDocID,
			Status:  201,
			Success: true,
		})
	}
	return result, nil
}

func (m *MockBulkWriter) Submit(ctx context.Context, op docModel.BulkOperation) (docModel.ItemResult, error) {
	if m.OnSubmit != nil {
		return m.OnSubmit(ctx, op)
	}
	return docModel.ItemResult{DocID: op.Document.OriginalDocID, Status: 201, Success: true}, nil
}

// MockRecordStore implements ingestModel.RecordStore
type MockRecordStore struct {
	mu      sync.Mutex
	records map[string]ingestModel.IngestionRecord
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{records: make(map[string]ingestModel.IngestionRecord)}
}

func (m *MockRecordStore) SaveRecord(ctx context.Context, record ingestModel.IngestionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.RequestID] = record
	return nil
}

func (m *MockRecordStore) GetRecord(ctx context.Context, requestID string) (ingestModel.IngestionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, found := m.records[requestID]
	return record, found
}

func (m *MockRecordStore) DeleteRecord(ctx context.Context, requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, requestID)
}
