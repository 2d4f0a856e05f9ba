package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func validMongo() AppConfig {
	return AppConfig{
		StoreBackend:     BackendMongo,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "coursehub",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 5,
		TimeoutPing:      2 * time.Second,
		TimeoutShort:     5 * time.Second,
		TimeoutMedium:    10 * time.Second,
		TimeoutLong:      30 * time.Second,
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "mongo defaults", mutate: func(*AppConfig) {}},
		{
			name:    "missing mongo database",
			mutate:  func(c *AppConfig) { c.MongoDatabase = " " },
			wantErr: "mongo_database",
		},
		{
			name:    "min pool above max",
			mutate:  func(c *AppConfig) { c.MongoMinPoolSize = 200 },
			wantErr: "mongo_min_pool_size",
		},
		{
			name: "postgres with dsn",
			mutate: func(c *AppConfig) {
				c.StoreBackend = BackendPostgres
				c.PostgresDSN = "host=localhost dbname=coursehub"
			},
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *AppConfig) { c.StoreBackend = BackendPostgres },
			wantErr: "postgres_dsn",
		},
		{
			name: "sqlite ignores mongo settings",
			mutate: func(c *AppConfig) {
				c.StoreBackend = BackendSQLite
				c.SQLitePath = "coursehub.db"
				c.MongoURI = ""
			},
		},
		{
			name: "sqlite without path",
			mutate: func(c *AppConfig) {
				c.StoreBackend = BackendSQLite
				c.SQLitePath = ""
			},
			wantErr: "sqlite_path",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *AppConfig) { c.StoreBackend = "redis" },
			wantErr: "unknown store_backend",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *AppConfig) { c.TimeoutLong = -time.Second },
			wantErr: "timeout_long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validMongo()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateAppConfig: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfig_LogsAndReturns(t *testing.T) {
	cfg := validMongo()
	cfg.StoreBackend = ""
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty backend")
	}
}
