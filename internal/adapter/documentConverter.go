package adapter

import (
	"fmt"
	"strings"

	"github.com/pipeline-io/opensearch-sink/internal/api"
	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
)

// ToSearchDocument converts a pipeline document into its engine-ready shape.
// Pure; never fails for well-formed input. Absent optional fields stay
// absent, they are not turned into empty strings or empty lists.
func ToSearchDocument(doc *docModel.PipelineDocument) docModel.SearchDocument {
	result := docModel.SearchDocument{
		OriginalDocID:  doc.ID,
		DocType:        doc.DocumentType,
		LastModifiedAt: doc.LastModifiedAt,
	}

	if doc.Title != nil {
		title := *doc.Title
		result.Title = &title
	}
	if doc.Body != nil {
		body := *doc.Body
		result.Body = &body
	}
	if len(doc.Keywords) > 0 {
		result.Tags = append([]string(nil), doc.Keywords...)
	}

	for _, semanticResult := range doc.SemanticResults {
		for _, chunk := range semanticResult.Chunks {
			if chunk.EmbeddingInfo == nil || len(chunk.EmbeddingInfo.Vector) == 0 {
				//chunks without vectors are skipped, not an error
				continue
			}
			result.Embeddings = append(result.Embeddings, docModel.Embedding{
				Vector:        append([]float32(nil), chunk.EmbeddingInfo.Vector...),
				SourceText:    chunk.EmbeddingInfo.TextContent,
				ChunkConfigID: semanticResult.ChunkConfigID,
				EmbeddingID:   semanticResult.EmbeddingConfigID,
				IsPrimary:     IsPrimaryChunkConfig(semanticResult.ChunkConfigID),
			})
		}
	}

	return result
}

// IsPrimaryChunkConfig marks the embedding whose owning chunk configuration
// is the title pass. Substring match on the config id, case-sensitive.
// TODO: replace with an explicit flag from the embedding stage; "subtitle"
// configs would also match here.
func IsPrimaryChunkConfig(chunkConfigID string) bool {
	return strings.Contains(chunkConfigID, "title")
}

// EmbeddingDimensions returns the vector dimensionality carried by the
// document, 0 when it has no vectors. A document whose own vectors disagree
// in dimensionality is rejected before it can poison the index mapping.
func EmbeddingDimensions(doc *docModel.PipelineDocument) (int, error) {
	dims := 0
	for _, semanticResult := range doc.SemanticResults {
		for _, chunk := range semanticResult.Chunks {
			if chunk.EmbeddingInfo == nil || len(chunk.EmbeddingInfo.Vector) == 0 {
				continue
			}
			if dims == 0 {
				dims = len(chunk.EmbeddingInfo.Vector)
				continue
			}
			if len(chunk.EmbeddingInfo.Vector) != dims {
				return 0, fmt.Errorf("document %s carries mixed vector dimensionality: %d and %d",
					doc.ID, dims, len(chunk.EmbeddingInfo.Vector))
			}
		}
	}
	return dims, nil
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
		Id:      id,
	}
}
