package docModel

import "time"

// PipelineDocument is the processed document handed to this module by the
// upstream pipeline stages. It is read-only here; ownership stays upstream.
type PipelineDocument struct {
	ID              string           `json:"id"`
	DocumentType    string           `json:"document_type"`
	Title           *string          `json:"title,omitempty"`
	Body            *string          `json:"body,omitempty"`
	Keywords        []string         `json:"keywords,omitempty"`
	LastModifiedAt  time.Time        `json:"last_modified_at"`
	SemanticResults []SemanticResult `json:"semantic_results,omitempty"`
}

// SemanticResult is one chunking/embedding pass over the document. The chunk
// and embedding configuration ids identify which upstream stage produced it.
type SemanticResult struct {
	ResultID          string          `json:"result_id"`
	ChunkConfigID     string          `json:"chunk_config_id"`
	EmbeddingConfigID string          `json:"embedding_config_id"`
	Chunks            []SemanticChunk `json:"chunks,omitempty"`
}

type SemanticChunk struct {
	ChunkID       string         `json:"chunk_id"`
	ChunkNumber   int            `json:"chunk_number"`
	EmbeddingInfo *EmbeddingInfo `json:"embedding_info,omitempty"`
}

type EmbeddingInfo struct {
	Vector      []float32 `json:"vector"`
	TextContent string    `json:"text_content"`
}

// SearchDocument is the engine-ready shape written to OpenSearch. Constructed
// fresh per input document; it has no identity beyond the write.
type SearchDocument struct {
	OriginalDocID  string      `json:"original_doc_id"`
	DocType        string      `json:"doc_type"`
	Title          *string     `json:"title,omitempty"`
	Body           *string     `json:"body,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	LastModifiedAt time.Time   `json:"last_modified_at"`
	Embeddings     []Embedding `json:"embeddings,omitempty"`
}

type Embedding struct {
	Vector        []float32 `json:"vector"`
	SourceText    string    `json:"source_text"`
	ChunkConfigID string    `json:"chunk_config_id"`
	EmbeddingID   string    `json:"embedding_id"`
	IsPrimary     bool      `json:"is_primary"`
}

// BulkOperation pairs a search document with its destination index.
type BulkOperation struct {
	IndexName string
	Document  SearchDocument
}

// ItemResult is the outcome of one document within a bulk call.
type ItemResult struct {
	DocID   string `json:"doc_id"`
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Error   string `json:"error,omitempty"`
}

// BulkResult reports per-document outcomes of a bulk call. A partial failure
// keeps every item individually addressable; Errors is only the aggregate.
type BulkResult struct {
	Errors bool         `json:"errors"`
	Items  []ItemResult `json:"items"`
}
