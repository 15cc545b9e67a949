package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var documentsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_processed_total",
	Help: "Ingestion outcomes labelled by destination index and result",
}, []string{"index", "result"})

var streamRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "stream_requests_in_flight",
	Help: "Ingestion requests currently being processed on streams",
})

var bulkBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "bulk_batch_size",
	Help:    "Number of documents per bulk call.",
	Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
})

var bulkBatchErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bulk_batches_with_errors_total",
	Help: "Bulk calls that reported at least one item failure.",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external engine calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"call"})

// HttpStatusRecorder remembers the status a handler wrote so the request
// counter can label it. Handlers that never call WriteHeader count as 200.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the recorder usable for streaming handlers.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureBulkBatch(size int, hadErrors bool) {
	bulkBatchSize.Observe(float64(size))
	if hadErrors {
		bulkBatchErrors.Inc()
	}
}

func CaptureDocumentResult(index string, success bool) {
	documentsProcessedTotal.WithLabelValues(index, strconv.FormatBool(success)).Inc()
}

func IncrementStreamInFlight() {
	streamRequestsInFlight.Inc()
}

func DecrementStreamInFlight() {
	streamRequestsInFlight.Dec()
}
