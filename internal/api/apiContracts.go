package api

import (
	"time"

	"github.com/pipeline-io/opensearch-sink/internal/domain/docModel"
)

// ProcessRequest is the single-document processing contract exposed to the
// pipeline coordinator. The document is optional on the wire; a missing one
// is rejected with a failure response, not an HTTP error.
type ProcessRequest struct {
	Document *docModel.PipelineDocument `json:"document,omitempty"`
}

type ProcessResponse struct {
	Success       bool                       `json:"success"`
	ProcessorLogs []string                   `json:"processor_logs"`
	OutputDoc     *docModel.PipelineDocument `json:"output_doc,omitempty"`
}

// IngestionRequest is one element of the streaming ingestion contract.
type IngestionRequest struct {
	RequestID string                     `json:"request_id" validate:"required"`
	Document  *docModel.PipelineDocument `json:"document,omitempty"`
}

type IngestionResponse struct {
	RequestID  string `json:"request_id"`
	DocumentID string `json:"document_id"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

type RegistrationResponse struct {
	ModuleName            string            `json:"module_name" example:"opensearch-sink"`
	Version               string            `json:"version" example:"1.0.0"`
	DisplayName           string            `json:"display_name"`
	Description           string            `json:"description"`
	Owner                 string            `json:"owner"`
	Tags                  []string          `json:"tags"`
	Capabilities          []string          `json:"capabilities"`
	ServerInfo            string            `json:"server_info"`
	SdkVersion            string            `json:"sdk_version"`
	Metadata              map[string]string `json:"metadata"`
	RegistrationTimestamp time.Time         `json:"registration_timestamp"`
	HealthCheckPassed     bool              `json:"health_check_passed"`
	HealthCheckMessage    string            `json:"health_check_message"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Bad Request"`
	Id      string `json:"id,omitempty"`
}
