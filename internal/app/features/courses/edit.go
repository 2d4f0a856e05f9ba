// internal/app/features/courses/edit.go
package courses

import (
	"net/http"
	"unicode/utf8"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleEdit handles PATCH /courses/{id}. Absent fields keep their value.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var in editInput
	if err := formutil.Decode(w, r, &in); err != nil {
		h.ErrLog.Render(w, r, "edit course", err)
		return
	}
	if err := in.check(); err != nil {
		h.ErrLog.Render(w, r, "edit course", err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	c, err := h.Svc.UpdateCourse(ctx, chi.URLParam(r, "id"), func(c *models.Course) {
		if v, ok := in.Title.Get(); ok {
			c.Title = normalize.Name(v)
		}
		if in.Description.Present() {
			c.Description = htmlsanitize.Sanitize(in.Description.OrElse(""))
		}
		if v, ok := in.IsMandatory.Get(); ok {
			c.IsMandatory = v
		}
	})
	if err != nil {
		h.ErrLog.Render(w, r, "edit course", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, c)
}

func (in editInput) check() error {
	if in.Title.IsNull() {
		return &sequence.ValidationError{Field: "title", Message: "must not be null"}
	}
	if v, ok := in.Title.Get(); ok && utf8.RuneCountInString(v) > 255 {
		return &sequence.ValidationError{Field: "title", Message: "must be at most 255 characters"}
	}
	if in.IsMandatory.IsNull() {
		return &sequence.ValidationError{Field: "is_mandatory", Message: "must not be null"}
	}
	return nil
}
