// internal/app/system/sequence/errors.go
package sequence

import "errors"

var (
	// ErrNotFound is returned when the item or its owning scope does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by stores when the underlying database rejects a
	// write because another writer got there first (duplicate key, write
	// conflict, locked database). The engine never retries it.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrValidation is the sentinel every *ValidationError unwraps to.
	ErrValidation = errors.New("validation failed")

	// ErrNotDense is returned by Verify when positions are not exactly 1..n.
	ErrNotDense = errors.New("positions are not a dense 1..n sequence")
)

// ValidationError reports a bad caller-supplied value. It is returned to the
// caller unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AsValidation returns the *ValidationError inside err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
