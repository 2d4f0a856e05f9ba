// Package sequence keeps sibling records in a dense 1..n order.
//
// Modules are ordered within a course and lessons within a module. Both use
// the same Engine, parameterized by item type; the owning parent id is the
// "scope". Every mutation runs as lock(scope) -> transaction -> unlock:
//
//   - Insert at an occupied position shifts siblings at or above it up by one.
//   - Reposition parks the item at 0, closes its old slot, opens the new one,
//     then writes the item into it.
//   - Remove deletes the item and shifts siblings at or above its old
//     position down by one.
//
// The engine is the only code that writes positions. Stores expose plain
// reads, a ShiftRange batch update, and create/update/delete. Field
// validation happens before the first write, so a rejected item never
// leaves siblings shifted even when the store has no transactions.
package sequence

import (
	"context"
	"fmt"
	"sort"

	"github.com/dalemusser/coursehub/internal/app/system/opt"
	"github.com/dalemusser/coursehub/internal/app/system/scopelock"
	"go.uber.org/zap"
)

// parkedPosition is never visible after an operation completes.
const parkedPosition = 0

// Item is a record that lives at a position inside a scope.
type Item interface {
	SequenceID() string
	SequenceScope() string
	SetSequenceScope(scope string)
	SequencePosition() int
	SetSequencePosition(pos int)
}

// Store is the record-store capability set the engine needs. Every method
// must honor a transaction carried in ctx by the matching TxRunner.
type Store[T Item] interface {
	// ScopeExists reports whether the owning parent exists.
	ScopeExists(ctx context.Context, scope string) (bool, error)
	// LockParent is ScopeExists for writers. Inside a transaction it also
	// holds a write lock on the parent until the transaction ends, so
	// writers in other processes serialize on the same scope.
	LockParent(ctx context.Context, scope string) (bool, error)
	// Validate checks the item's own fields. The engine calls it before
	// any sibling moves.
	Validate(item T) error
	// FindByID returns ErrNotFound (wrapped) when missing.
	FindByID(ctx context.Context, id string) (T, error)
	FindByScopeAndPosition(ctx context.Context, scope string, pos int) (T, bool, error)
	CountInScope(ctx context.Context, scope string) (int, error)
	// ListByScope returns the siblings sorted by position.
	ListByScope(ctx context.Context, scope string) ([]T, error)
	// ShiftRange adds delta to every sibling with position >= from.
	ShiftRange(ctx context.Context, scope string, from, delta int) (int64, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	// Delete removes the item and anything it owns. ErrNotFound when missing.
	Delete(ctx context.Context, id string) error
}

// TxRunner runs fn as one all-or-nothing unit. The ctx passed to fn carries
// the transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NoTx runs fn directly. Only for stores with no transaction support.
func NoTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Config names what an Engine orders.
type Config struct {
	Kind  string // "module" or "lesson"; used in lock keys and logs
	Field string // request field reported in validation errors
}

// Engine enforces the dense ordering for one item type.
type Engine[T Item] struct {
	store Store[T]
	run   TxRunner
	locks *scopelock.Locker
	cfg   Config
	log   *zap.Logger
}

// New builds an Engine. locks may be shared between engines; keys are
// prefixed with cfg.Kind.
func New[T Item](store Store[T], run TxRunner, locks *scopelock.Locker, cfg Config, logger *zap.Logger) *Engine[T] {
	if run == nil {
		run = NoTx
	}
	if locks == nil {
		locks = scopelock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[T]{store: store, run: run, locks: locks, cfg: cfg, log: logger}
}

func (e *Engine[T]) lock(scope string) func() {
	return e.locks.Lock(e.cfg.Kind + ":" + scope)
}

// LockScope blocks every engine operation on scope until unlock is called.
// Callers use it to keep a scope still while deleting its owner.
func (e *Engine[T]) LockScope(scope string) (unlock func()) {
	return e.lock(scope)
}

func (e *Engine[T]) lockParent(ctx context.Context, scope string) error {
	ok, err := e.store.LockParent(ctx, scope)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s scope %q: %w", e.cfg.Kind, scope, ErrNotFound)
	}
	return nil
}

func (e *Engine[T]) invalid(msg string) error {
	return &ValidationError{Field: e.cfg.Field, Message: msg}
}

// Insert stores item at position inside scope, shifting occupants up first.
// position must be within 1..count+1.
func (e *Engine[T]) Insert(ctx context.Context, scope string, position int, item T) (T, error) {
	if position < 1 {
		var zero T
		return zero, e.invalid("must be a positive integer")
	}
	return e.insert(ctx, scope, position, item)
}

// Append stores item after the last sibling in scope.
func (e *Engine[T]) Append(ctx context.Context, scope string, item T) (T, error) {
	return e.insert(ctx, scope, 0, item)
}

// insert treats position 0 as count+1.
func (e *Engine[T]) insert(ctx context.Context, scope string, position int, item T) (T, error) {
	var zero T

	if err := e.store.Validate(item); err != nil {
		return zero, err
	}

	unlock := e.lock(scope)
	defer unlock()

	var (
		created T
		shifted int64
	)
	err := e.run(ctx, func(ctx context.Context) error {
		if err := e.lockParent(ctx, scope); err != nil {
			return err
		}

		n, err := e.store.CountInScope(ctx, scope)
		if err != nil {
			return err
		}
		if position == 0 {
			position = n + 1
		}
		if position > n+1 {
			return e.invalid(fmt.Sprintf("must be between 1 and %d", n+1))
		}

		_, occupied, err := e.store.FindByScopeAndPosition(ctx, scope, position)
		if err != nil {
			return err
		}
		if occupied {
			if shifted, err = e.store.ShiftRange(ctx, scope, position, +1); err != nil {
				return fmt.Errorf("shift %ss up from %d: %w", e.cfg.Kind, position, err)
			}
		}

		item.SetSequenceScope(scope)
		item.SetSequencePosition(position)
		created, err = e.store.Create(ctx, item)
		return err
	})
	if err != nil {
		e.logFailure("insert", scope, err)
		return zero, err
	}

	e.log.Debug("sequence insert",
		zap.String("kind", e.cfg.Kind),
		zap.String("scope", scope),
		zap.String("id", created.SequenceID()),
		zap.Int("position", position),
		zap.Int64("shifted", shifted))
	return created, nil
}

// Reposition moves the item to newPosition when it is present, and applies
// apply (if non-nil) to the item's other fields in the same transaction.
// An absent newPosition never shifts siblings.
func (e *Engine[T]) Reposition(ctx context.Context, id string, newPosition opt.Value[int], apply func(T) error) (T, error) {
	var zero T

	if newPosition.IsNull() {
		return zero, e.invalid("must not be null")
	}
	if v, ok := newPosition.Get(); ok && v < 1 {
		return zero, e.invalid("must be a positive integer")
	}

	current, err := e.store.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	scope := current.SequenceScope()

	unlock := e.lock(scope)
	defer unlock()

	var updated T
	err = e.run(ctx, func(ctx context.Context) error {
		if err := e.lockParent(ctx, scope); err != nil {
			return err
		}
		// Re-read under the lock; the position may have moved since.
		item, err := e.store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		oldPos := item.SequencePosition()

		if apply != nil {
			if err := apply(item); err != nil {
				return err
			}
		}
		// apply must not be able to move the item or change its scope.
		item.SetSequenceScope(scope)
		item.SetSequencePosition(oldPos)
		if err := e.store.Validate(item); err != nil {
			return err
		}

		target, move := newPosition.Get()
		if move {
			n, err := e.store.CountInScope(ctx, scope)
			if err != nil {
				return err
			}
			if target > n {
				return e.invalid(fmt.Sprintf("must be between 1 and %d", n))
			}
			move = target != oldPos
		}

		if !move {
			updated, err = e.store.Update(ctx, item)
			return err
		}

		// Park, close the old slot, open the new one, land.
		item.SetSequencePosition(parkedPosition)
		if _, err := e.store.Update(ctx, item); err != nil {
			return err
		}
		if _, err := e.store.ShiftRange(ctx, scope, oldPos+1, -1); err != nil {
			return fmt.Errorf("close %s slot %d: %w", e.cfg.Kind, oldPos, err)
		}
		if _, err := e.store.ShiftRange(ctx, scope, target, +1); err != nil {
			return fmt.Errorf("open %s slot %d: %w", e.cfg.Kind, target, err)
		}
		item.SetSequencePosition(target)
		updated, err = e.store.Update(ctx, item)
		return err
	})
	if err != nil {
		e.logFailure("reposition", scope, err)
		return zero, err
	}
	return updated, nil
}

// Remove deletes the item and closes the gap it leaves behind.
func (e *Engine[T]) Remove(ctx context.Context, id string) error {
	current, err := e.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	scope := current.SequenceScope()

	unlock := e.lock(scope)
	defer unlock()

	var shifted int64
	err = e.run(ctx, func(ctx context.Context) error {
		if err := e.lockParent(ctx, scope); err != nil {
			return err
		}
		item, err := e.store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		pos := item.SequencePosition()

		if err := e.store.Delete(ctx, id); err != nil {
			return err
		}
		if shifted, err = e.store.ShiftRange(ctx, scope, pos, -1); err != nil {
			return fmt.Errorf("shift %ss down from %d: %w", e.cfg.Kind, pos, err)
		}
		return nil
	})
	if err != nil {
		e.logFailure("remove", scope, err)
		return err
	}

	e.log.Debug("sequence remove",
		zap.String("kind", e.cfg.Kind),
		zap.String("scope", scope),
		zap.String("id", id),
		zap.Int64("shifted", shifted))
	return nil
}

// Get returns one item by id.
func (e *Engine[T]) Get(ctx context.Context, id string) (T, error) {
	return e.store.FindByID(ctx, id)
}

// List returns the siblings of scope in position order.
func (e *Engine[T]) List(ctx context.Context, scope string) ([]T, error) {
	ok, err := e.store.ScopeExists(ctx, scope)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s scope %q: %w", e.cfg.Kind, scope, ErrNotFound)
	}
	return e.store.ListByScope(ctx, scope)
}

// Check lists scope and runs Verify on the result.
func (e *Engine[T]) Check(ctx context.Context, scope string) error {
	items, err := e.List(ctx, scope)
	if err != nil {
		return err
	}
	return Verify(items)
}

func (e *Engine[T]) logFailure(op, scope string, err error) {
	if _, ok := AsValidation(err); ok {
		return
	}
	e.log.Warn("sequence operation failed",
		zap.String("op", op),
		zap.String("kind", e.cfg.Kind),
		zap.String("scope", scope),
		zap.Error(err))
}

// Verify reports ErrNotDense unless the positions of items are exactly
// {1, 2, ..., len(items)}. Order of items does not matter.
func Verify[T Item](items []T) error {
	pos := make([]int, len(items))
	for i, it := range items {
		pos[i] = it.SequencePosition()
	}
	sort.Ints(pos)
	for i, p := range pos {
		if p != i+1 {
			return fmt.Errorf("%w: want %d at index %d, got %d", ErrNotDense, i+1, i, p)
		}
	}
	return nil
}
