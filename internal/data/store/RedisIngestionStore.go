package store

import (
	"context"
	"encoding/json"

	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/data/redisStore"
	"github.com/pipeline-io/opensearch-sink/internal/domain/ingestModel"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

type RedisIngestionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisIngestionStore(ctx context.Context) *RedisIngestionStore {
	internalStore := redisStore.GetRedisStore(ctx, config.RedisIngestionStore)
	if internalStore == nil {
		return nil
	}
	return &RedisIngestionStore{
		store:  internalStore,
		logger: logger_i.NewLogger("IngestionStore"),
	}
}

func (s *RedisIngestionStore) SaveRecord(ctx context.Context, record ingestModel.IngestionRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "requestId", record.RequestID)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, record.RequestID, data, config.RedisIngestionStoreTTL)
	if err == nil {
		log.Debug("Saved ingestion record to Redis")
	}
	return err
}

func (s *RedisIngestionStore) GetRecord(ctx context.Context, requestID string) (ingestModel.IngestionRecord, bool) {
	var record ingestModel.IngestionRecord
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "requestId", requestID)

	val, err := s.store.Get(ctx, requestID)
	if s.store.IsNil(err) {
		return record, false
	} else if err != nil {
		log.Error("Error reading ingestion record", "error", err)
		return record, false
	}

	if err = json.Unmarshal([]byte(val), &record); err != nil {
		log.Error("Corrupt ingestion record", "error", err)
		return record, false
	}

	return record, true
}

func (s *RedisIngestionStore) DeleteRecord(ctx context.Context, requestID string) {
	err := s.store.Del(ctx, requestID)
	if err != nil {
		s.logger.Error("Error deleting ingestion record from Redis", "requestId", requestID, "error", err)
		return
	}
	s.logger.Debug("Ingestion record deleted from Redis", "requestId", requestID)
}

// TestIngestionStore wires an externally provided store. Only for _test packages.
func TestIngestionStore(store *redisStore.Store) *RedisIngestionStore {
	return &RedisIngestionStore{
		store:  store,
		logger: logger_i.NewLogger("test ingestion store"),
	}
}
