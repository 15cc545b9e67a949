package ingest

import (
	"context"
	"runtime"
	"time"

	"github.com/pipeline-io/opensearch-sink/internal/api"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
)

// Registration reports the module's capability metadata to the coordinator.
// With runSelfTest set, a sample document is round-tripped through the real
// single-document path; there is no separate simulation.
func (s *Service) Registration(ctx context.Context, runSelfTest bool) api.RegistrationResponse {
	response := api.RegistrationResponse{
		ModuleName:   config.ModuleName,
		Version:      config.ModuleVersion,
		DisplayName:  config.ModuleDisplayName,
		Description:  config.ModuleDescription,
		Owner:        config.ModuleOwner,
		Tags:         []string{"opensearch", "sink", "vector", "indexing", "module"},
		Capabilities: []string{"sink"},
		ServerInfo:   runtime.GOOS + " " + runtime.GOARCH,
		SdkVersion:   config.SdkVersion,
		Metadata: map[string]string{
			"implementation_language": "Go",
			"go_version":              runtime.Version(),
			"opensearch_client":       "opensearch-go",
			"capabilities":            "vector-indexing,dynamic-schema",
		},
		RegistrationTimestamp: time.Now(),
	}

	if !runSelfTest {
		response.HealthCheckPassed = true
		response.HealthCheckMessage = "Service is healthy"
		return response
	}

	s.logger.Debug("Performing health check with sample document")
	result := s.ProcessSingle(ctx, api.ProcessRequest{Document: sampleDocument()})
	if result.Success {
		response.HealthCheckPassed = true
		response.HealthCheckMessage = "OpenSearch sink module is healthy and functioning correctly"
	} else {
		response.HealthCheckPassed = false
		message := "OpenSearch sink module health check failed"
		if len(result.ProcessorLogs) > 0 {
			message += ": " + result.ProcessorLogs[0]
		}
		response.HealthCheckMessage = message
	}
	return response
}

func sampleDocument() *docModel.PipelineDocument {
	title := "Health check"
	body := "Self-test document issued during registration."
	return &docModel.PipelineDocument{
		ID:             "health-check-doc",
		DocumentType:   "health-check",
		Title:          &title,
		Body:           &body,
		Keywords:       []string{"health"},
		LastModifiedAt: time.Now(),
		SemanticResults: []docModel.SemanticResult{
			{
				ResultID:          "health-result",
				ChunkConfigID:     "body-chunker-health",
				EmbeddingConfigID: "health-embedder",
				Chunks: []docModel.SemanticChunk{
					{
						ChunkID:     "health-chunk-0",
						ChunkNumber: 0,
						EmbeddingInfo: &docModel.EmbeddingInfo{
							Vector:      []float32{0.1, 0.2, 0.3},
							TextContent: body,
						},
					},
				},
			},
		},
	}
}
