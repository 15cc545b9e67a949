package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //local dev only, the coordinator injects the real token
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 10
	BURST_RATE_LIMIT_PER_SECOND = 20

	//module identity reported on registration
	ModuleName        = "opensearch-sink"
	ModuleVersion     = "1.0.0"
	ModuleDisplayName = "OpenSearch Sink"
	ModuleDescription = "OpenSearch vector indexing sink with dynamic schema creation"
	ModuleOwner       = "Pipeline Team"
	SdkVersion        = "1.0.0"

	//index naming
	IndexPrefix = "pipeline-"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 0 * time.Second //streaming responses stay open past any fixed deadline
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//opensearch
	OpenSearchAddr     = "http://localhost:9200"
	OpenSearchPingWait = 3 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	RedisIngestionStore    = 0
	RedisIngestionStoreTTL = 24 * time.Hour
)

// BatchOptions governs how bulk writes are accumulated and how long the
// engine calls may take. One value is built at startup and shared read-only.
type BatchOptions struct {
	BatchSize      int
	FlushWindow    time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// KnnMethod names the vector index engine and distance metric used when a
// vector field is first created. Immutable for the lifetime of the field.
type KnnMethod struct {
	Engine    string
	SpaceType string
}

// KnnParameters are the HNSW construction/search parameters passed to the
// engine alongside KnnMethod.
type KnnParameters struct {
	M              int
	EfConstruction int
	EfSearch       int
}

func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		BatchSize:      50,
		FlushWindow:    500 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

func DefaultKnnMethod() KnnMethod {
	return KnnMethod{
		Engine:    "nmslib",
		SpaceType: "cosinesimil",
	}
}

func DefaultKnnParameters() KnnParameters {
	return KnnParameters{
		M:              16,
		EfConstruction: 512,
		EfSearch:       512,
	}
}
