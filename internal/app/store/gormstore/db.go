// Package gormstore is the SQL record store. It implements the same store
// contracts as the Mongo stores on top of gorm, with postgres for deployed
// environments and sqlite for local runs and tests.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Backend names accepted by Open.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Open connects to a SQL database through gorm. sqlite is limited to one
// open connection so writers queue instead of failing with "database is
// locked".
func Open(backend, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch backend {
	case Postgres:
		dialector = postgres.Open(dsn)
	case SQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown sql backend %q", backend)
	}

	if log == nil {
		log = zap.NewNop()
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if backend == SQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	return gdb, nil
}

// Position uniqueness on postgres. Deferred to commit because ShiftRange
// passes through duplicate positions mid-statement.
var positionConstraints = []struct {
	table, name, columns string
}{
	{"modules", "uq_modules_course_position", "course_id, position"},
	{"lessons", "uq_lessons_module_position", "module_id, position"},
}

// Migrate creates or updates the courses, modules and lessons tables. On
// postgres it also adds deferrable unique (scope, position) constraints.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.Course{}, &models.Module{}, &models.Lesson{}); err != nil {
		return err
	}
	if gdb.Dialector.Name() != Postgres {
		return nil
	}
	for _, c := range positionConstraints {
		var n int64
		err := gdb.Raw(`SELECT count(*) FROM pg_constraint c
			JOIN pg_namespace ns ON ns.oid = c.connamespace
			WHERE c.conname = ? AND ns.nspname = current_schema()`, c.name).Scan(&n).Error
		if err != nil {
			return fmt.Errorf("check constraint %s: %w", c.name, err)
		}
		if n > 0 {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s) DEFERRABLE INITIALLY DEFERRED",
			c.table, c.name, c.columns)
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Runner returns a sequence.TxRunner backed by gorm transactions. Stores
// built on the same db pick the transaction up from ctx. Nested calls join
// the outer transaction.
func Runner(db *gorm.DB) sequence.TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
			return fn(ctx)
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(withTx(ctx, tx))
		})
		// Deferred constraints and serialization failures surface on commit.
		if err != nil && !errors.Is(err, sequence.ErrConflict) && (IsConflict(err) || errors.Is(err, gorm.ErrDuplicatedKey)) {
			return fmt.Errorf("%w: %v", sequence.ErrConflict, err)
		}
		return err
	}
}

// lockRow reports whether model's row with id exists. Inside a postgres
// transaction the row stays locked FOR UPDATE until commit; sqlite already
// serializes writers.
func lockRow(ctx context.Context, db *gorm.DB, model any, id string) (bool, error) {
	q := conn(ctx, db).Model(model).Where("id = ?", id).Limit(1)
	if db.Dialector.Name() != SQLite {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []string
	if err := q.Pluck("id", &ids).Error; err != nil {
		return false, mapErr("row", id, err)
	}
	return len(ids) > 0, nil
}

// mapErr converts driver errors into the sequence sentinels.
func mapErr(kind, id string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %s: %w", kind, id, sequence.ErrNotFound)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s %s: parent: %w", kind, id, sequence.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), IsConflict(err):
		return fmt.Errorf("%s %s: %w: %v", kind, id, sequence.ErrConflict, err)
	}
	return err
}

// IsConflict reports whether err is a lock or serialization failure raised
// by another writer.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"database is locked",
		"database table is locked",
		"sqlstate 40001", // serialization_failure
		"sqlstate 40p01", // deadlock_detected
		"sqlstate 23505", // unique_violation
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
