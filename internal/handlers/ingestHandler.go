package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pipeline-io/opensearch-sink/internal/adapter/utils"
	"github.com/pipeline-io/opensearch-sink/internal/api"
	"github.com/pipeline-io/opensearch-sink/internal/ingest"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

var logIH *logger_i.Logger
var ingestService *ingest.Service

// lines on the ingestion stream can carry full documents with vectors
const maxStreamLineBytes = 16 << 20

func InitIngestHandler(service *ingest.Service) {
	ingestService = service
	logIH = logger_i.NewLogger("IngestHandler")
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ProcessHandler godoc
// @Summary      Process a single document
// @Description  Converts the document, ensures the destination index exists and writes it to OpenSearch. The original document is echoed back on attempted processing.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.ProcessRequest   true  "Pipeline document to index"
// @Success      200      {object}  api.ProcessResponse  "Processing outcome"
// @Failure      400      {object}  api.ErrorResponse    "Malformed request body"
// @Router       /process [post]
func ProcessHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ProcessRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logIH.Error("Couldn't close the process handler reader :", "error", err)
			}
		}(request.Body)

		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
			logIH.Warn("Bad process request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		response := ingestService.ProcessSingle(request.Context(), requestData)
		writeJsonResponse(w, http.StatusOK, response)
		return
	}
	logIH.Warn("Invalid Context by request ", "remoteAddr", request.RemoteAddr)
}

// StreamIngestHandler godoc
// @Summary      Stream documents for ingestion
// @Description  Accepts newline-delimited JSON ingestion requests and emits one NDJSON response per request. Responses arrive in completion order, correlated by request_id.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Success      200  {object}  api.IngestionResponse  "One NDJSON line per request"
// @Router       /ingest/stream [post]
func StreamIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logIH.Warn("Invalid Context by request ", "remoteAddr", r.RemoteAddr)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	encoder := newStreamEncoder(w)

	requests := make(chan api.IngestionRequest)
	responses := ingestService.StreamIngest(r.Context(), requests)

	go decodeRequestStream(r, requests, encoder)

	for response := range responses {
		encoder.Write(response)
	}
}

func decodeRequestStream(r *http.Request, requests chan<- api.IngestionRequest, encoder *streamEncoder) {
	defer close(requests)

	scanner := bufio.NewScanner(r.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var request api.IngestionRequest
		if err := json.Unmarshal(line, &request); err != nil {
			logIH.Warn("Undecodable stream line", "error", err)
			encoder.Write(api.IngestionResponse{
				Success: false,
				Message: "Invalid request: " + err.Error(),
			})
			continue
		}

		if err := validate.Struct(request); err != nil {
			encoder.Write(api.IngestionResponse{
				RequestID: request.RequestID,
				Success:   false,
				Message:   "Invalid request: " + err.Error(),
			})
			continue
		}

		select {
		case requests <- request:
		case <-r.Context().Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		logIH.Error("Stream read failed", "error", err)
	}
}

// GetStatusHandler godoc
// @Summary      Get ingestion request status
// @Description  Returns the last recorded outcome for an ingestion request id.
// @Tags         Status
// @Produce      json
// @Param        id   path      string  true  "Ingestion request ID"
// @Success      200  {object}  ingestModel.IngestionRecord  "Recorded outcome"
// @Failure      404  {object}  api.ErrorResponse            "Request not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		if idString == "" {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Request not found")
			return
		}

		record, found := ingestService.Record(r.Context(), idString)
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Request not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, record)
	}
}

// RegistrationHandler godoc
// @Summary      Module registration metadata
// @Description  Reports module name, version and capabilities. With selftest=1 a sample document is round-tripped through the real processing path.
// @Tags         Registration
// @Produce      json
// @Param        selftest  query     string  false  "Set to 1 to run the self-test"
// @Success      200       {object}  api.RegistrationResponse
// @Router       /registration [get]
func RegistrationHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		selfTest := r.URL.Query().Get("selftest")
		response := ingestService.Registration(r.Context(), selfTest == "1" || selfTest == "true")
		writeJsonResponse(w, http.StatusOK, response)
	}
}
