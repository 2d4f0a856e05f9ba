// Package formutil decodes and validates JSON request bodies.
//
// Example usage:
//
//	var in createModuleInput
//	if err := formutil.Bind(w, r, &in); err != nil {
//		h.ErrLog.Render(w, r, "create module", err)
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ErrTooLarge is returned when a body exceeds MaxBodyBytes.
var ErrTooLarge = errors.New("request body too large")

// Bind decodes the JSON body of r into dst and validates it. Every failure
// other than ErrTooLarge is a *sequence.ValidationError so handlers can
// answer 400 uniformly.
func Bind(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := Decode(w, r, dst); err != nil {
		return err
	}
	return inputval.Struct(dst)
}

// Decode decodes the JSON body of r into dst without validating it. Unknown
// fields are rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			ute *json.UnmarshalTypeError
			mbe *http.MaxBytesError
		)
		switch {
		case errors.As(err, &mbe):
			return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, mbe.Limit)
		case errors.Is(err, io.EOF):
			return &sequence.ValidationError{Message: "request body is empty"}
		case errors.As(err, &ute):
			return &sequence.ValidationError{Field: ute.Field, Message: fmt.Sprintf("must be of type %s", ute.Type)}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			name := strings.TrimPrefix(err.Error(), "json: unknown field ")
			if unq, uerr := strconv.Unquote(name); uerr == nil {
				name = unq
			}
			return &sequence.ValidationError{Field: name, Message: "is not a known field"}
		default:
			return &sequence.ValidationError{Message: "malformed JSON: " + err.Error()}
		}
	}
	if dec.More() {
		return &sequence.ValidationError{Message: "request body must hold a single JSON object"}
	}
	return nil
}
