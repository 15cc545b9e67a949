package opensearchDB

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/metrics"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

// SchemaManager ensures destination indices and their field mappings exist.
// It never diffs full schemas: creation is a create-if-missing upsert and a
// benign "already exists" from the engine counts as success. That tolerance
// is the only mechanism guarding concurrent first-writers racing on the same
// index, there is no lock.
type SchemaManager struct {
	client    *ClientHolder
	batchOpts config.BatchOptions
	knnMethod config.KnnMethod
	knnParams config.KnnParameters
	logger    *logger_i.Logger
}

func NewSchemaManager(client *ClientHolder, batchOpts config.BatchOptions, knnMethod config.KnnMethod, knnParams config.KnnParameters) *SchemaManager {
	return &SchemaManager{
		client:    client,
		batchOpts: batchOpts,
		knnMethod: knnMethod,
		knnParams: knnParams,
		logger:    logger_i.NewLogger("SchemaManager"),
	}
}

// DetermineIndexName derives the destination index from the document type.
// Pure; the same type always maps to the same index.
func (m *SchemaManager) DetermineIndexName(docType string) string {
	return config.IndexPrefix + strings.ToLower(docType)
}

// EnsureIndex creates the index and its mappings when absent. vectorDims > 0
// additionally ensures the k-NN embeddings mapping sized to that
// dimensionality; 0 means the document carries no vectors and the mapping is
// left alone. When the index and its vector mapping already exist the whole
// call costs one admin round trip.
func (m *SchemaManager) EnsureIndex(ctx context.Context, indexName string, vectorDims int) error {
	log := m.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "index", indexName)

	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("ensure_index", time.Since(start))
	}()

	callCtx, cancel := context.WithTimeout(ctx, m.batchOpts.ConnectTimeout)
	defer cancel()

	exists, hasEmbeddings, err := m.getIndex(callCtx, indexName)
	if err != nil {
		return err
	}

	if !exists {
		log.Debug("index missing, creating")
		if err := m.createIndex(callCtx, indexName, vectorDims); err != nil {
			return err
		}
		return nil
	}

	if vectorDims > 0 && !hasEmbeddings {
		return m.putEmbeddingsMapping(callCtx, indexName, vectorDims)
	}
	return nil
}

// getIndex reports whether the index exists and, when it does, whether its
// mapping already carries the embeddings field. One GET answers both so the
// common already-provisioned path needs no second call.
func (m *SchemaManager) getIndex(ctx context.Context, indexName string) (exists bool, hasEmbeddings bool, err error) {
	res, err := opensearchapi.IndicesGetRequest{Index: []string{indexName}}.Do(ctx, m.client.OS)
	if err != nil {
		return false, false, &IndexError{Index: indexName, Op: "get", Transient: true, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return false, false, nil
	}
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return false, false, &IndexError{
			Index:     indexName,
			Op:        "get",
			Transient: res.StatusCode >= 500,
			Err:       fmt.Errorf("status %d: %s", res.StatusCode, string(raw)),
		}
	}

	var parsed map[string]struct {
		Mappings struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return false, false, &IndexError{Index: indexName, Op: "get", Transient: false, Err: err}
	}

	//the body is keyed by the resolved index name
	for _, index := range parsed {
		if _, ok := index.Mappings.Properties["embeddings"]; ok {
			return true, true, nil
		}
	}
	return true, false, nil
}

func (m *SchemaManager) createIndex(ctx context.Context, indexName string, vectorDims int) error {
	body, err := json.Marshal(m.indexBody(vectorDims))
	if err != nil {
		return &IndexError{Index: indexName, Op: "create", Transient: false, Err: err}
	}

	res, err := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}.Do(ctx, m.client.OS)
	if err != nil {
		return &IndexError{Index: indexName, Op: "create", Transient: true, Err: err}
	}
	defer res.Body.Close()

	if !res.IsError() {
		m.logger.Info("Created index", "index", indexName, "vectorDims", vectorDims)
		return nil
	}

	raw, _ := io.ReadAll(res.Body)
	if strings.Contains(string(raw), "resource_already_exists_exception") {
		//another writer won the creation race, that is success for us
		m.logger.Debug("Index already exists", "index", indexName)
		return nil
	}

	return &IndexError{
		Index:     indexName,
		Op:        "create",
		Transient: res.StatusCode >= 500,
		Err:       fmt.Errorf("status %d: %s", res.StatusCode, string(raw)),
	}
}

func (m *SchemaManager) putEmbeddingsMapping(ctx context.Context, indexName string, vectorDims int) error {
	body, err := json.Marshal(map[string]any{
		"properties": map[string]any{
			"embeddings": m.embeddingsMapping(vectorDims),
		},
	})
	if err != nil {
		return &IndexError{Index: indexName, Op: "put_mapping", Transient: false, Err: err}
	}

	res, err := opensearchapi.IndicesPutMappingRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(body),
	}.Do(ctx, m.client.OS)
	if err != nil {
		return &IndexError{Index: indexName, Op: "put_mapping", Transient: true, Err: err}
	}
	defer res.Body.Close()

	if !res.IsError() {
		return nil
	}

	raw, _ := io.ReadAll(res.Body)
	return &IndexError{
		Index: indexName,
		Op:    "put_mapping",
		//mapping conflicts are 4xx and not retryable
		Transient: res.StatusCode >= 500,
		Err:       fmt.Errorf("status %d: %s", res.StatusCode, string(raw)),
	}
}

func (m *SchemaManager) indexBody(vectorDims int) map[string]any {
	properties := map[string]any{
		"original_doc_id":  map[string]any{"type": "keyword"},
		"doc_type":         map[string]any{"type": "keyword"},
		"title":            map[string]any{"type": "text"},
		"body":             map[string]any{"type": "text"},
		"tags":             map[string]any{"type": "keyword"},
		"last_modified_at": map[string]any{"type": "date"},
	}
	if vectorDims > 0 {
		properties["embeddings"] = m.embeddingsMapping(vectorDims)
	}

	return map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"knn":                      true,
				"knn.algo_param.ef_search": m.knnParams.EfSearch,
			},
		},
		"mappings": map[string]any{
			"properties": properties,
		},
	}
}

func (m *SchemaManager) embeddingsMapping(vectorDims int) map[string]any {
	return map[string]any{
		"type": "nested",
		"properties": map[string]any{
			"vector": map[string]any{
				"type":      "knn_vector",
				"dimension": vectorDims,
				"method": map[string]any{
					"name":       "hnsw",
					"engine":     m.knnMethod.Engine,
					"space_type": m.knnMethod.SpaceType,
					"parameters": map[string]any{
						"m":               m.knnParams.M,
						"ef_construction": m.knnParams.EfConstruction,
					},
				},
			},
			"source_text":     map[string]any{"type": "text"},
			"chunk_config_id": map[string]any{"type": "keyword"},
			"embedding_id":    map[string]any{"type": "keyword"},
			"is_primary":      map[string]any{"type": "boolean"},
		},
	}
}
