// internal/app/features/courses/create.go
package courses

import (
	"net/http"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /courses.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := formutil.Bind(w, r, &in); err != nil {
		h.ErrLog.Render(w, r, "create course", err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	c, err := h.Svc.CreateCourse(ctx, models.Course{
		Title:       normalize.Name(in.Title),
		Description: htmlsanitize.Sanitize(in.Description),
		IsMandatory: in.IsMandatory,
	})
	if err != nil {
		h.ErrLog.Render(w, r, "create course", err)
		return
	}

	h.Log.Info("course created", zap.String("course_id", c.ID), zap.String("title", c.Title))
	uierrors.WriteJSON(w, http.StatusCreated, c)
}
