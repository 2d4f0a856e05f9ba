// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, log level and the like. AppConfig
// covers what is specific to coursehub: which record store backs the
// curriculum, how to reach it, and the request deadlines.
type AppConfig struct {
	// StoreBackend selects the record store: "mongo", "postgres" or "sqlite".
	StoreBackend string

	// MongoDB connection configuration
	MongoURI         string // e.g. mongodb://localhost:27017
	MongoDatabase    string // database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// RequireTransactions refuses to reorder without a MongoDB transaction
	// (replica set or mongos). When false, standalone servers run
	// unprotected and rely on the in-process scope lock alone.
	RequireTransactions bool

	// SQL configuration (gorm)
	PostgresDSN string // e.g. host=localhost user=coursehub dbname=coursehub sslmode=disable
	SQLitePath  string // file path, or file::memory:?cache=shared

	// Handler deadlines (see system/timeouts)
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// LogRequests enables the per-request access log.
	LogRequests bool
}
