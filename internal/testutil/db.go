package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/app/store/gormstore"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// DefaultMongoURI is used when COURSEHUB_TEST_MONGO_URI is not set.
const DefaultMongoURI = "mongodb://localhost:27017"

// TestContext returns a context with a timeout suitable for store tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// SetupTestDB connects to MongoDB and returns a fresh, uniquely named
// database that is dropped when the test finishes. The test is skipped when
// no server is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("COURSEHUB_TEST_MONGO_URI")
	if uri == "" {
		uri = DefaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo unavailable: %v", err)
	}

	name := "coursehub_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// SetupSQLiteDB opens a private in-memory sqlite database with the schema
// migrated. It is closed when the test finishes.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gormstore.Open(gormstore.SQLite, dsn, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gormstore.Migrate(gdb); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	t.Cleanup(func() {
		_ = gormstore.Close(gdb)
	})
	return gdb
}

// SetupPostgresDB connects to the postgres server named by
// COURSEHUB_TEST_POSTGRES_DSN and returns a gorm handle bound to a fresh
// schema with the tables migrated. The schema is dropped when the test
// finishes. The test is skipped when the variable is unset or the server is
// unreachable.
func SetupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("COURSEHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("COURSEHUB_TEST_POSTGRES_DSN not set")
	}

	admin, err := gormstore.Open(gormstore.Postgres, dsn, nil)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	schema := "coursehub_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		_ = gormstore.Close(admin)
		t.Skipf("postgres unavailable: %v", err)
	}

	gdb, err := gormstore.Open(gormstore.Postgres, withSearchPath(dsn, schema), nil)
	if err != nil {
		t.Fatalf("open postgres schema: %v", err)
	}
	if err := gormstore.Migrate(gdb); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}

	t.Cleanup(func() {
		_ = gormstore.Close(gdb)
		_ = admin.Exec("DROP SCHEMA " + schema + " CASCADE").Error
		_ = gormstore.Close(admin)
	})
	return gdb
}

// withSearchPath adds a search_path runtime parameter to a URL or key=value
// postgres DSN.
func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}
