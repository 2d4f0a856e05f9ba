// internal/app/features/lessons/edit.go
package lessons

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	lessonstore "github.com/dalemusser/coursehub/internal/app/store/lessons"
	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleEdit handles PATCH /lessons/{id}. Only present fields change; a
// present lesson_number moves the lesson within its module.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var in editInput
	if err := formutil.Decode(w, r, &in); err != nil {
		h.ErrLog.Render(w, r, "edit lesson", err)
		return
	}
	if in.Name.IsNull() {
		h.ErrLog.Render(w, r, "edit lesson", &sequence.ValidationError{Field: "name", Message: "must not be null"})
		return
	}
	if in.DurationSeconds.IsNull() {
		h.ErrLog.Render(w, r, "edit lesson", &sequence.ValidationError{Field: "duration_seconds", Message: "must not be null"})
		return
	}
	// The limit applies to what the client sent; sanitizing may lengthen it.
	if v, ok := in.Description.Get(); ok && utf8.RuneCountInString(v) > lessonstore.MaxDescriptionLen {
		h.ErrLog.Render(w, r, "edit lesson", &sequence.ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("must be at most %d characters", lessonstore.MaxDescriptionLen),
		})
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	// Field rules are enforced by lessonstore.Validate when the lesson is written.
	l, err := h.Svc.Lessons.Reposition(ctx, chi.URLParam(r, "id"), in.LessonNumber, func(l *models.Lesson) error {
		if v, ok := in.Name.Get(); ok {
			l.Name = normalize.Name(v)
		}
		if v, ok := in.DurationSeconds.Get(); ok {
			l.DurationSeconds = v
		}
		if in.Description.Present() {
			l.Description = htmlsanitize.Sanitize(in.Description.OrElse(""))
		}
		if in.Media.Present() {
			l.Media = normalize.MediaRef(in.Media.OrElse(""))
		}
		return nil
	})
	if err != nil {
		h.ErrLog.Render(w, r, "edit lesson", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, l)
}
