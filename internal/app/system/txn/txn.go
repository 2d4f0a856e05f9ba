// Package txn runs multi-document writes inside a MongoDB transaction.
//
// Transactions need a replica set or mongos. On a standalone server (local
// development, the default test database) the first operation inside the
// transaction fails with IllegalOperation; Run then either falls back to
// running fn without a transaction or, in strict mode, refuses.
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrUnavailable is returned in strict mode when the server cannot run
// transactions.
var ErrUnavailable = errors.New("transactions are not available on this MongoDB deployment")

// Run executes fn in a transaction and falls back to a plain call when the
// deployment does not support transactions.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	return run(ctx, db, log, false, fn)
}

// RunStrict is Run without the fallback.
func RunStrict(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	return run(ctx, db, log, true, fn)
}

// Runner adapts Run/RunStrict to the func shape the sequence engine expects.
func Runner(db *mongo.Database, log *zap.Logger, strict bool) func(context.Context, func(context.Context) error) error {
	return func(ctx context.Context, fn func(context.Context) error) error {
		return run(ctx, db, log, strict, fn)
	}
}

func run(ctx context.Context, db *mongo.Database, log *zap.Logger, strict bool, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) && !strict {
			log.Warn("mongo sessions unsupported; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			// Abort uses a fresh context so a cancelled ctx still cleans up.
			_ = sess.AbortTransaction(context.Background())
			return err
		}
		return sess.CommitTransaction(sc)
	})
	if err == nil || IsConflict(err) {
		return err
	}

	if IsNotSupported(err) {
		if strict {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		// The first command inside the transaction is what fails on a
		// standalone server, so nothing was written yet.
		log.Warn("mongo transactions unsupported; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the deployment cannot run
// sessions or multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: "Transaction numbers are only allowed on a replica set member or mongos"
			51,  // IllegalOperation (older servers)
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "transaction") && (strings.Contains(s, "replica set") || strings.Contains(s, "session")):
		return true
	case strings.Contains(s, "session") && strings.Contains(s, "not supported"):
		return true
	case strings.Contains(s, "illegal operation"):
		return true
	}
	return false
}

// IsConflict reports whether err is a write conflict or duplicate key, i.e.
// another writer touched the same documents first.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(112) || se.HasErrorLabel("TransientTransactionError")
	}
	return false
}
