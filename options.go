package resumerank

import "go.uber.org/zap"

const (
	driverRedis  = "redis"
	driverValkey = "valkey"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver      string
	addrs       []string
	password    string
	embedder    Embedder
	dimensions  int
	concurrency int
	keyPrefix   string
	logger      *zap.Logger
}

// WithRedis connects to a Redis server.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithValkey connects to a Valkey server.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithEmbedder sets the embedding provider used for resumes and job descriptions.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithDimensions rejects embeddings whose length differs from n at ingest time.
func WithDimensions(n int) Option {
	return func(c *clientConfig) { c.dimensions = n }
}

// WithConcurrency bounds the number of parallel embeddings in IngestBatch.
func WithConcurrency(n int) Option {
	return func(c *clientConfig) { c.concurrency = n }
}

// WithKeyPrefix namespaces every key the Client writes. Default "resumerank:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
