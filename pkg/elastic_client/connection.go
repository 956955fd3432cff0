package elastic_client

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
	"github.com/rs/zerolog/log"
)

var Client *elasticsearch.Client
var bulkIndexer esutil.BulkIndexer

const (
	maxRetries    = 5
	flushInterval = 15 * time.Second
)

// Config is the event archive cluster. An empty Address means no archive.
type Config struct {
	Address  string
	Username string
	Password string
}

func ConfigFromEnvironment() Config {
	env := util.GetEnvironmentVariables()

	return Config{
		Address:  env["ROADSAFETY_ELASTICSEARCH_ADDRESS"],
		Username: env["ROADSAFETY_ELASTICSEARCH_USERNAME"],
		Password: env["ROADSAFETY_ELASTICSEARCH_PASSWORD"],
	}
}

// Connect sets up the shared client and bulk indexer. Without an address
// configured indexing is skipped, unless required is set.
func Connect(required bool) error {
	config := ConfigFromEnvironment()

	if config.Address == "" {
		if required {
			log.Fatal().Msg("Elasticsearch configuration not set")
		}
		log.Info().Msg("Event archive disabled, no Elasticsearch address set")
		return nil
	}

	es, err := NewClient(config)
	if err != nil {
		return err
	}

	if _, err = es.Info(); err != nil {
		return err
	}

	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		FlushInterval: flushInterval,
		OnError: func(_ context.Context, err error) {
			log.Error().Err(err).Msg("Event archive bulk request failed")
		},
	})
	if err != nil {
		return err
	}

	Client = es
	bulkIndexer = indexer

	log.Info().Str("address", config.Address).Msg("Event archive connected")

	return nil
}

// NewClient builds a client that retries gateway and throttling responses
// with exponential backoff.
func NewClient(config Config) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.Address},
		Username:  config.Username,
		Password:  config.Password,

		RetryOnStatus: []int{
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
			http.StatusTooManyRequests,
		},
		RetryBackoff: retryBackoff(backoff.NewExponentialBackOff()),
		MaxRetries:   maxRetries,
	})
}

// retryBackoff restarts the sequence on the first retry of every request.
func retryBackoff(sequence backoff.BackOff) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt == 1 {
			sequence.Reset()
		}
		return sequence.NextBackOff()
	}
}

func Enabled() bool {
	return Client != nil
}

// IndexRequest queues a document for the next bulk flush. It does nothing
// while the archive is disabled.
func IndexRequest(indexName string, document io.ReadSeeker) {
	if bulkIndexer == nil {
		return
	}

	err := bulkIndexer.Add(
		context.Background(),
		esutil.BulkIndexerItem{
			Index:  indexName,
			Action: "index",
			Body:   document,
			OnFailure: func(_ context.Context, _ esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failure := log.Error().Str("index", indexName)
				if err != nil {
					failure.Err(err).Msg("Failed to archive event")
					return
				}
				failure.Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Failed to archive event")
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Str("index", indexName).Msg("Failed to queue event for archiving")
	}
}

// WaitUntilQueueEmpty flushes whatever is still buffered and logs the totals.
func WaitUntilQueueEmpty() {
	if bulkIndexer == nil {
		return
	}

	if err := bulkIndexer.Close(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush event archive")
	}

	stats := bulkIndexer.Stats()
	log.Info().
		Uint64("indexed", stats.NumIndexed).
		Uint64("failed", stats.NumFailed).
		Msg("Event archive flushed")
}
