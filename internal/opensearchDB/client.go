package opensearchDB

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/customHttpClient"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

var logger *logger_i.Logger
var clientInstance *opensearch.Client
var once sync.Once

type ClientHolder struct {
	OS *opensearch.Client
}

func GetOpenSearchClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("OpenSearch")
		res := newClient(ctx)
		if res != nil {
			clientInstance = res
		}
	})

	if clientInstance == nil {
		return nil
	}
	return &ClientHolder{
		OS: clientInstance,
	}
}

func newClient(ctx context.Context) *opensearch.Client {

	addr := os.Getenv("OPENSEARCH_ADDR")
	if addr == "" {
		addr = config.OpenSearchAddr
	}

	transport := customHttpClient.PooledTransport()
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{addr},
		Username:  os.Getenv("OPENSEARCH_USER"),
		Password:  os.Getenv("OPENSEARCH_PASSWORD"),
		Transport: transport,
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.OpenSearchPingWait)
	defer cancel()

	res, err := opensearchapi.PingRequest{}.Do(pingCtx, client)
	if err != nil {
		logger.Error("OpenSearch is offline: ", "addr", addr, "error:", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Error("OpenSearch ping failed: ", "addr", addr, "status", res.StatusCode)
		return nil
	}

	logger.Info("OpenSearch client init successfully", "addr", addr)
	go closeIdleOnShutdown(ctx, transport)
	return client
}

func closeIdleOnShutdown(ctx context.Context, transport *http.Transport) {
	<-ctx.Done()
	logger.Info("Shutting down OpenSearch client")
	transport.CloseIdleConnections()
}

// NewTestClientHolder builds a holder over a canned transport.
// Only for _test packages.
func NewTestClientHolder(rt http.RoundTripper) *ClientHolder {
	if logger == nil {
		logger = logger_i.NewLogger("OpenSearch test")
	}
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{"http://opensearch.test:9200"},
		Transport: rt,
	})
	if err != nil {
		panic(err)
	}
	return &ClientHolder{OS: client}
}
