// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/coursehub/internal/app/curriculum"
	"github.com/dalemusser/coursehub/internal/app/store/gormstore"
	"github.com/dalemusser/coursehub/internal/app/system/indexes"
	"github.com/dalemusser/coursehub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens the configured record store and builds the curriculum
// service on it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.StoreBackend {
	case BackendMongo:
		return connectMongo(ctx, appCfg, logger)
	case BackendPostgres, BackendSQLite:
		dsn := appCfg.PostgresDSN
		if appCfg.StoreBackend == BackendSQLite {
			dsn = appCfg.SQLitePath
		}
		gdb, err := gormstore.Open(appCfg.StoreBackend, dsn, logger)
		if err != nil {
			logger.Error("sql connect failed", zap.String("backend", appCfg.StoreBackend), zap.Error(err))
			return DBDeps{}, err
		}
		logger.Info("connected to sql store", zap.String("backend", appCfg.StoreBackend))
		return DBDeps{
			SQL:        gdb,
			Curriculum: curriculum.NewSQL(appCfg.StoreBackend, gdb, logger),
		}, nil
	}
	return DBDeps{}, fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
}

func connectMongo(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Bool("require_transactions", appCfg.RequireTransactions))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Curriculum:    curriculum.NewMongo(db, logger, appCfg.RequireTransactions),
	}, nil
}

// EnsureSchema attaches Mongo collection validators and reconciles indexes,
// or runs gorm migrations on a SQL backend.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	switch {
	case deps.MongoDatabase != nil:
		if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("ensure validators failed", zap.Error(err))
			return err
		}
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("ensure indexes failed", zap.Error(err))
			return err
		}
	case deps.SQL != nil:
		if err := gormstore.Migrate(deps.SQL.WithContext(ctx)); err != nil {
			logger.Error("sql migration failed", zap.Error(err))
			return err
		}
	}
	logger.Info("schema ready", zap.String("backend", appCfg.StoreBackend))
	return nil
}
