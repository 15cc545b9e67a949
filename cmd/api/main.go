// @title           OpenSearch Sink Module API
// @version         1.0
// @description     Indexing sink between the document pipeline and OpenSearch

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pipeline-io/opensearch-sink/internal/config"
	"github.com/pipeline-io/opensearch-sink/internal/data/store"
	"github.com/pipeline-io/opensearch-sink/internal/domain/ingestModel"
	"github.com/pipeline-io/opensearch-sink/internal/handlers"
	"github.com/pipeline-io/opensearch-sink/internal/ingest"
	"github.com/pipeline-io/opensearch-sink/internal/opensearchDB"
	"github.com/pipeline-io/opensearch-sink/internal/server"
	"github.com/pipeline-io/opensearch-sink/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//ingestion record store, redis first with in-memory fallback
	var recordStore ingestModel.RecordStore
	if redisRecords := store.GetRedisIngestionStore(serviceContext); redisRecords != nil {
		recordStore = redisRecords
	} else {
		logger.Error("Redis store is offline, falling back to in-memory records")
		recordStore = store.InitInMemoryIngestionStore()
	}

	osClient := opensearchDB.GetOpenSearchClient(serviceContext)
	if osClient == nil {
		logger.Error("OpenSearch failed to initialize. Shutting down.")
		return
	}

	batchOpts := config.DefaultBatchOptions()
	schemaManager := opensearchDB.NewSchemaManager(osClient, batchOpts, config.DefaultKnnMethod(), config.DefaultKnnParameters())
	bulkWriter := opensearchDB.NewBulkWriter(osClient, batchOpts)

	ingestService := ingest.NewService(schemaManager, bulkWriter, recordStore)
	handlers.InitIngestHandler(ingestService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseWriter:      bulkWriter.Close,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
