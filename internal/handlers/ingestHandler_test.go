package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pipeline-io/opensearch-sink/internal/api"
	"github.com/pipeline-io/opensearch-sink/internal/data/store"
	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
	"github.com/pipeline-io/opensearch-sink/internal/handlers"
	"github.com/pipeline-io/opensearch-sink/internal/ingest"
)

type stubSchemaManager struct{}

func (stubSchemaManager) DetermineIndexName(docType string) string {
	return "pipeline-" + strings.ToLower(docType)
}

func (stubSchemaManager) EnsureIndex(ctx context.Context, indexName string, vectorDims int) error {
	return nil
}

type stubBulkWriter struct{}

func (stubBulkWriter) Write(ctx context.Context, ops []docModel.BulkOperation) (docModel.BulkResult, error) {
	result := docModel.BulkResult{}
	for _, op := range ops {
		result.Items = append(result.Items, docModel.ItemResult{DocID: op.Document.OriginalDocID, Status: 201, Success: true})
	}
	return result, nil
}

func (stubBulkWriter) Submit(ctx context.Context, op docModel.BulkOperation) (docModel.ItemResult, error) {
	return docModel.ItemResult{DocID: op.Document.OriginalDocID, Status: 201, Success: true}, nil
}

func initStubService() {
	service := ingest.NewService(stubSchemaManager{}, stubBulkWriter{}, store.InitInMemoryIngestionStore())
	handlers.InitIngestHandler(service)
}

func TestStreamIngestHandler_MixedStream(t *testing.T) {
	initStubService()

	body := strings.Join([]string{
		`{"request_id":"req-1","document":{"id":"doc-1","document_type":"Article"}}`,
		`this is not json`,
		`{"document":{"id":"doc-2","document_type":"Article"}}`,
		``,
		`{"request_id":"req-2","document":{"id":"doc-3","document_type":"Note"}}`,
	}, "\n")

	req := httptest.NewRequest("POST", "/ingest/stream", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.StreamIngestHandler(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "application/x-ndjson" {
		t.Errorf("Content-Type got %s", got)
	}

	var responses []api.IngestionResponse
	decoder := json.NewDecoder(rec.Body)
	for decoder.More() {
		var response api.IngestionResponse
		if err := decoder.Decode(&response); err != nil {
			t.Fatalf("undecodable response line: %v", err)
		}
		responses = append(responses, response)
	}

	//blank line is skipped, the four real lines each get a response
	if len(responses) != 4 {
		t.Fatalf("response count got %d, want 4: %+v", len(responses), responses)
	}

	byRequest := make(map[string]api.IngestionResponse)
	invalid := 0
	for _, response := range responses {
		if strings.HasPrefix(response.Message, "Invalid request:") {
			invalid++
			if response.Success {
				t.Errorf("invalid line reported success: %+v", response)
			}
			continue
		}
		byRequest[response.RequestID] = response
	}

	if invalid != 2 {
		t.Errorf("invalid-line responses got %d, want 2 (bad json + missing request_id)", invalid)
	}
	for _, id := range []string{"req-1", "req-2"} {
		response, found := byRequest[id]
		if !found {
			t.Fatalf("no response for %s", id)
		}
		if !response.Success {
			t.Errorf("%s should succeed, got %q", id, response.Message)
		}
	}
	if byRequest["req-2"].DocumentID != "doc-3" {
		t.Errorf("req-2 document id got %s, want doc-3", byRequest["req-2"].DocumentID)
	}
}

func TestProcessHandler_BadBody(t *testing.T) {
	initStubService()

	req := httptest.NewRequest("POST", "/process", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handlers.ProcessHandler(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status got %d, want 400", rec.Code)
	}

	var response api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("undecodable error body: %v", err)
	}
	if response.Code != 400 || response.Message != "Bad Request" {
		t.Errorf("error body got %+v", response)
	}
}

func TestProcessHandler_EchoesDocument(t *testing.T) {
	initStubService()

	body := `{"document":{"id":"doc-9","document_type":"Article","title":"A title"}}`
	req := httptest.NewRequest("POST", "/process", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.ProcessHandler(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status got %d, want 200", rec.Code)
	}

	var response api.ProcessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("undecodable body: %v", err)
	}
	if !response.Success {
		t.Errorf("processing failed: %v", response.ProcessorLogs)
	}
	if response.OutputDoc == nil || response.OutputDoc.ID != "doc-9" {
		t.Errorf("document not echoed: %+v", response.OutputDoc)
	}
}
