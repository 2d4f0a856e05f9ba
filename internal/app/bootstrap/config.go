// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/store/gormstore"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Store backends.
const (
	BackendMongo    = "mongo"
	BackendPostgres = gormstore.Postgres
	BackendSQLite   = gormstore.SQLite
)

// appConfigKeys defines the configuration keys for coursehub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, mongo_uri, etc.
//   - Environment variables: COURSEHUB_STORE_BACKEND, COURSEHUB_MONGO_URI, etc.
//   - Command-line flags: --store_backend, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Record store: 'mongo', 'postgres' or 'sqlite'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "coursehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "require_transactions", Default: false, Desc: "Fail ordering changes when MongoDB cannot run transactions"},

	{Name: "postgres_dsn", Default: "", Desc: "Postgres DSN (store_backend=postgres)"},
	{Name: "sqlite_path", Default: "coursehub.db", Desc: "SQLite database file (store_backend=sqlite)"},

	{Name: "timeout_ping", Default: "2s", Desc: "Health check deadline"},
	{Name: "timeout_short", Default: "5s", Desc: "Single-record read deadline"},
	{Name: "timeout_medium", Default: "10s", Desc: "List and simple write deadline"},
	{Name: "timeout_long", Default: "30s", Desc: "Reorder and cascade delete deadline"},

	{Name: "log_requests", Default: true, Desc: "Write one log line per HTTP request"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, with precedence
// flags > env > files > defaults:
//   - .env files and config.yaml/json/toml
//   - environment variables (WAFFLE_* for core, COURSEHUB_* for app)
//   - command-line flags
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),

		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		RequireTransactions: appValues.Bool("require_transactions"),

		PostgresDSN: appValues.String("postgres_dsn"),
		SQLitePath:  appValues.String("sqlite_path"),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		LogRequests: appValues.Bool("log_requests"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It checks the settings of the selected backend only, so a sqlite run
// does not need a valid Mongo URI.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	return nil
}

func validateAppConfig(appCfg AppConfig) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required")
		}
		if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
			return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
				appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
		}
	case BackendPostgres:
		if strings.TrimSpace(appCfg.PostgresDSN) == "" {
			return fmt.Errorf("postgres_dsn is required when store_backend=postgres")
		}
	case BackendSQLite:
		if strings.TrimSpace(appCfg.SQLitePath) == "" {
			return fmt.Errorf("sqlite_path is required when store_backend=sqlite")
		}
	default:
		return fmt.Errorf("unknown store_backend %q (want mongo, postgres or sqlite)", appCfg.StoreBackend)
	}

	for name, d := range map[string]time.Duration{
		"timeout_ping":   appCfg.TimeoutPing,
		"timeout_short":  appCfg.TimeoutShort,
		"timeout_medium": appCfg.TimeoutMedium,
		"timeout_long":   appCfg.TimeoutLong,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}
