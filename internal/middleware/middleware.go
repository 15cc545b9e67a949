package middleware

import (
	"net/http"
	"strconv"

	"github.com/pipeline-io/opensearch-sink/internal/handlers"
	"github.com/pipeline-io/opensearch-sink/internal/metrics"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var ProcessHandler = Wrap(handlers.ProcessHandler)
var StreamIngestHandler = Wrap(handlers.StreamIngestHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var RegistrationHandler = Wrap(handlers.RegistrationHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")

	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)
	return re
}
