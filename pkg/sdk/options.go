package retriever

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Index drivers.
const (
	driverPinecone = "pinecone"
	driverRedis    = "redis"
	driverValkey   = "valkey"
)

type clientConfig struct {
	driver    string
	indexName string

	pineconeAPIKey string
	pineconeHost   string
	namespace      string

	addrs       []string
	password    string
	vectorField string

	contentField string
	embedder     Embedder
	timeout      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPinecone queries the named Pinecone index.
func WithPinecone(apiKey, indexName string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPinecone
		c.pineconeAPIKey = apiKey
		c.indexName = indexName
	})
}

// WithPineconeHost skips the index host lookup.
func WithPineconeHost(host string) Option {
	return optionFunc(func(c *clientConfig) {
		c.pineconeHost = host
	})
}

// WithNamespace restricts Pinecone queries to a namespace.
func WithNamespace(ns string) Option {
	return optionFunc(func(c *clientConfig) {
		c.namespace = ns
	})
}

// WithRedis queries an existing FT index on a Redis instance.
func WithRedis(addr, password, indexName string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
		c.indexName = indexName
	})
}

// WithValkey queries an existing FT index on a Valkey instance.
func WithValkey(addr, password, indexName string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
		c.indexName = indexName
	})
}

// WithVectorField sets the vector attribute used in Redis/Valkey KNN queries.
// Default: "vector".
func WithVectorField(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorField = name
	})
}

// WithContentField sets the metadata key holding passage text. Default: "text".
func WithContentField(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.contentField = name
	})
}

// WithEmbedder sets the text embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithTimeout bounds the provider calls of a single Retrieve. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
