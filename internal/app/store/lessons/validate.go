// internal/app/store/lessons/validate.go
package lessonstore

import (
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
)

// MaxDescriptionLen bounds the description a client submits, in characters,
// before it is sanitized.
const MaxDescriptionLen = 500

// MaxStoredDescriptionLen bounds the stored, sanitized description. Escaping
// grows a character to at most five ("&" becomes "&amp;").
const MaxStoredDescriptionLen = 5 * MaxDescriptionLen

// Validate checks the field-level rules shared by every lesson backend.
func Validate(l *models.Lesson) error {
	switch {
	case strings.TrimSpace(l.Name) == "":
		return &sequence.ValidationError{Field: "name", Message: "is required"}
	case utf8.RuneCountInString(l.Name) > 255:
		return &sequence.ValidationError{Field: "name", Message: "must be at most 255 characters"}
	case l.DurationSeconds <= 0:
		return &sequence.ValidationError{Field: "duration_seconds", Message: "must be positive"}
	case utf8.RuneCountInString(l.Description) > MaxStoredDescriptionLen:
		return &sequence.ValidationError{Field: "description", Message: "is too long"}
	}
	return nil
}
