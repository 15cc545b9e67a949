package customHttpClient

import (
	"net/http"

	"github.com/pipeline-io/opensearch-sink/internal/config"
)

// PooledTransport is shared by every OpenSearch call so bulk writes and
// schema requests reuse connections instead of redialing per request.
func PooledTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
	}
}
