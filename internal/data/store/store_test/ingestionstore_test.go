package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/data/redisStore"
	"github.com/pipeline-io/opensearch-sink/internal/data/store"
	"github.com/pipeline-io/opensearch-sink/internal/domain/ingestModel"
	"github.com/redis/go-redis/v9"
)

func TestRedisIngestionStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	recordStore := store.TestIngestionStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	requestID := "req_abc_123"

	testRecord := ingestModel.IngestionRecord{
		RequestID:   requestID,
		DocumentID:  "doc-1",
		IndexName:   "pipeline-article",
		TraceID:     "test-trace",
		Status:      ingestModel.StatusIndexed,
		Message:     "Document indexed successfully.",
		ReceivedAt:  time.Now().UTC().Truncate(time.Second),
		CompletedAt: time.Now().UTC().Truncate(time.Second),
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := recordStore.SaveRecord(ctx, testRecord); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}

		retrieved, found := recordStore.GetRecord(ctx, requestID)
		if !found {
			t.Fatal("Record was saved but not found in Redis")
		}

		if retrieved.Status != testRecord.Status {
			t.Errorf("Status mismatch! Got %s, want %s", retrieved.Status, testRecord.Status)
		}
		if retrieved.IndexName != testRecord.IndexName {
			t.Errorf("IndexName mismatch! Got %s, want %s", retrieved.IndexName, testRecord.IndexName)
		}
		if !retrieved.ReceivedAt.Equal(testRecord.ReceivedAt) {
			t.Errorf("ReceivedAt mismatch! Got %v, want %v", retrieved.ReceivedAt, testRecord.ReceivedAt)
		}
	})

	t.Run("Record Expires", func(t *testing.T) {
		ttl := mr.TTL(requestID)
		if ttl <= 0 {
			t.Errorf("record should carry a TTL, got %v", ttl)
		}

		mr.FastForward(config.RedisIngestionStoreTTL + time.Minute)
		if _, found := recordStore.GetRecord(ctx, requestID); found {
			t.Error("record should be gone after the TTL elapses")
		}

		//restore for the delete subtest
		if err := recordStore.SaveRecord(ctx, testRecord); err != nil {
			t.Fatalf("SaveRecord failed: %v", err)
		}
	})

	t.Run("Get Non-Existent Record", func(t *testing.T) {
		_, found := recordStore.GetRecord(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Record", func(t *testing.T) {
		recordStore.DeleteRecord(ctx, requestID)

		if mr.Exists(requestID) {
			t.Error("Record still exists in Redis after DeleteRecord call")
		}
	})
}

func TestRedisIngestionStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	recordStore := store.TestIngestionStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	record := ingestModel.IngestionRecord{RequestID: "race-req"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = recordStore.SaveRecord(ctx, record)
			_, _ = recordStore.GetRecord(ctx, "race-req")
		}()
	}
}

func TestInMemoryIngestionStore(t *testing.T) {
	memStore := store.InitInMemoryIngestionStore()
	ctx := context.Background()

	record := ingestModel.IngestionRecord{
		RequestID: "req-mem",
		Status:    ingestModel.StatusFailed,
		Message:   "Processing failed: connection refused",
	}

	if err := memStore.SaveRecord(ctx, record); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	retrieved, found := memStore.GetRecord(ctx, "req-mem")
	if !found {
		t.Fatal("record not found after save")
	}
	if retrieved.Status != ingestModel.StatusFailed {
		t.Errorf("Status got %s, want %s", retrieved.Status, ingestModel.StatusFailed)
	}

	memStore.DeleteRecord(ctx, "req-mem")
	if _, found = memStore.GetRecord(ctx, "req-mem"); found {
		t.Error("record still present after delete")
	}
}
