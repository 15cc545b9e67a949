package store

import (
	"context"
	"sync"

	"github.com/pipeline-io/opensearch-sink/internal/domain/ingestModel"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem IngestionStore")

type InMemoryIngestionStore struct {
	recordMutex *sync.RWMutex
	recordMap   map[string]ingestModel.IngestionRecord
}

func InitInMemoryIngestionStore() *InMemoryIngestionStore {
	return &InMemoryIngestionStore{
		recordMutex: new(sync.RWMutex),
		recordMap:   make(map[string]ingestModel.IngestionRecord),
	}
}

func (store *InMemoryIngestionStore) SaveRecord(ctx context.Context, record ingestModel.IngestionRecord) error {
	store.recordMutex.Lock()
	defer store.recordMutex.Unlock()
	store.recordMap[record.RequestID] = record
	inMemLogger.Debug("Saved ingestion record", "requestId", record.RequestID)
	return nil
}

func (store *InMemoryIngestionStore) GetRecord(ctx context.Context, requestID string) (ingestModel.IngestionRecord, bool) {
	store.recordMutex.RLock()
	defer store.recordMutex.RUnlock()
	result, found := store.recordMap[requestID]
	return result, found
}

func (store *InMemoryIngestionStore) DeleteRecord(ctx context.Context, requestID string) {
	store.recordMutex.Lock()
	defer store.recordMutex.Unlock()
	delete(store.recordMap, requestID)
}
