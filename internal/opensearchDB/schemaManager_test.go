package opensearchDB_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/opensearchDB"
)

func newTestManager(handler func(req *http.Request) (*http.Response, error)) (*opensearchDB.SchemaManager, *fakeTransport) {
	ft := &fakeTransport{handler: handler}
	holder := opensearchDB.NewTestClientHolder(ft)
	manager := opensearchDB.NewSchemaManager(holder, config.DefaultBatchOptions(), config.DefaultKnnMethod(), config.DefaultKnnParameters())
	return manager, ft
}

func indexMissingResponse() *http.Response {
	return jsonResponse(404, `{"error":{"type":"index_not_found_exception","reason":"no such index [pipeline-article]"},"status":404}`)
}

func indexGetResponse(indexName string, withEmbeddings bool) *http.Response {
	properties := `"title":{"type":"text"},"doc_type":{"type":"keyword"}`
	if withEmbeddings {
		properties += `,"embeddings":{"type":"nested","properties":{"vector":{"type":"knn_vector","dimension":768}}}`
	}
	return jsonResponse(200, `{"`+indexName+`":{"aliases":{},"mappings":{"properties":{`+properties+`}},"settings":{"index":{"knn":"true"}}}}`)
}

func TestDetermineIndexName(t *testing.T) {
	manager, _ := newTestManager(nil)

	tests := []struct {
		docType string
		want    string
	}{
		{"Article", "pipeline-article"},
		{"ARTICLE", "pipeline-article"},
		{"note", "pipeline-note"},
	}

	for _, tt := range tests {
		if got := manager.DetermineIndexName(tt.docType); got != tt.want {
			t.Errorf("DetermineIndexName(%q) got %s, want %s", tt.docType, got, tt.want)
		}
	}
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	var createBody string
	manager, ft := newTestManager(func(req *http.Request) (*http.Response, error) {
		switch req.Method {
		case http.MethodGet:
			return indexMissingResponse(), nil
		case http.MethodPut:
			raw, _ := io.ReadAll(req.Body)
			createBody = string(raw)
			return jsonResponse(200, `{"acknowledged":true}`), nil
		default:
			t.Fatalf("unexpected call %s %s", req.Method, req.URL.Path)
			return nil, nil
		}
	})

	if err := manager.EnsureIndex(context.Background(), "pipeline-article", 3); err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}

	if ft.callCount() != 2 {
		t.Fatalf("call count got %d, want 2", ft.callCount())
	}
	if ft.call(0) != "GET /pipeline-article" || ft.call(1) != "PUT /pipeline-article" {
		t.Errorf("unexpected calls: %v", []string{ft.call(0), ft.call(1)})
	}

	for _, want := range []string{`"knn_vector"`, `"dimension":3`, `"engine":"nmslib"`, `"space_type":"cosinesimil"`, `"ef_construction":512`, `"original_doc_id"`, `"last_modified_at"`} {
		if !strings.Contains(createBody, want) {
			t.Errorf("create body missing %s:\n%s", want, createBody)
		}
	}
}

func TestEnsureIndex_SecondCallIsNoOp(t *testing.T) {
	manager, ft := newTestManager(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			t.Fatalf("unexpected call %s %s", req.Method, req.URL.Path)
		}
		return indexGetResponse("pipeline-article", false), nil
	})

	if err := manager.EnsureIndex(context.Background(), "pipeline-article", 0); err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if ft.callCount() != 1 {
		t.Errorf("existing index should cost one round trip, got %d", ft.callCount())
	}
}

func TestEnsureIndex_ExistingIndexGainsVectorMapping(t *testing.T) {
	manager, ft := newTestManager(func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return indexGetResponse("pipeline-article", false), nil
		}
		if req.Method == http.MethodPut && strings.HasSuffix(req.URL.Path, "/_mapping") {
			return jsonResponse(200, `{"acknowledged":true}`), nil
		}
		t.Fatalf("unexpected call %s %s", req.Method, req.URL.Path)
		return nil, nil
	})

	if err := manager.EnsureIndex(context.Background(), "pipeline-article", 768); err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if ft.call(1) != "PUT /pipeline-article/_mapping" {
		t.Errorf("expected mapping call, calls: %v", []string{ft.call(0), ft.call(1)})
	}
}

func TestEnsureIndex_ProvisionedVectorIndexIsOneRoundTrip(t *testing.T) {
	manager, ft := newTestManager(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			t.Fatalf("unexpected call %s %s", req.Method, req.URL.Path)
		}
		return indexGetResponse("pipeline-article", true), nil
	})

	if err := manager.EnsureIndex(context.Background(), "pipeline-article", 768); err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if ft.callCount() != 1 {
		t.Errorf("index with embeddings mapping should cost one round trip, got %d", ft.callCount())
	}
}

func TestEnsureIndex_LosingCreationRaceIsSuccess(t *testing.T) {
	manager, _ := newTestManager(func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return indexMissingResponse(), nil
		}
		return jsonResponse(400, `{"error":{"type":"resource_already_exists_exception","reason":"index [pipeline-article] already exists"}}`), nil
	})

	if err := manager.EnsureIndex(context.Background(), "pipeline-article", 0); err != nil {
		t.Fatalf("already-exists should be success, got: %v", err)
	}
}

func TestEnsureIndex_MappingConflictIsPermanent(t *testing.T) {
	manager, _ := newTestManager(func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			return indexGetResponse("pipeline-article", false), nil
		}
		return jsonResponse(400, `{"error":{"type":"illegal_argument_exception","reason":"mapper [embeddings.vector] cannot be changed"}}`), nil
	})

	err := manager.EnsureIndex(context.Background(), "pipeline-article", 768)
	if err == nil {
		t.Fatal("expected error")
	}

	var indexErr *opensearchDB.IndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("expected IndexError, got %T", err)
	}
	if indexErr.Transient {
		t.Error("mapping conflict must be classified permanent")
	}
}

func TestEnsureIndex_UnreachableIsTransient(t *testing.T) {
	manager, _ := newTestManager(func(req *http.Request) (*http.Response, error) {
		return nil, timeoutError{}
	})

	err := manager.EnsureIndex(context.Background(), "pipeline-article", 0)
	if err == nil {
		t.Fatal("expected error")
	}

	var indexErr *opensearchDB.IndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("expected IndexError, got %T", err)
	}
	if !indexErr.Transient {
		t.Error("unreachable engine must be classified transient")
	}
}
