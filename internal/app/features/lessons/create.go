// internal/app/features/lessons/create.go
package lessons

import (
	"net/http"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate handles POST /modules/{moduleID}/lessons. An absent
// lesson_number appends after the last lesson.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := formutil.Bind(w, r, &in); err != nil {
		h.ErrLog.Render(w, r, "create lesson", err)
		return
	}
	if in.LessonNumber.IsNull() {
		h.ErrLog.Render(w, r, "create lesson", &sequence.ValidationError{Field: "lesson_number", Message: "must not be null"})
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	moduleID := chi.URLParam(r, "moduleID")
	l := &models.Lesson{
		Name:            normalize.Name(in.Name),
		DurationSeconds: in.DurationSeconds,
		Description:     htmlsanitize.Sanitize(in.Description),
		Media:           normalize.MediaRef(in.Media),
	}

	var err error
	if pos, ok := in.LessonNumber.Get(); ok {
		l, err = h.Svc.Lessons.Insert(ctx, moduleID, pos, l)
	} else {
		l, err = h.Svc.Lessons.Append(ctx, moduleID, l)
	}
	if err != nil {
		h.ErrLog.Render(w, r, "create lesson", err)
		return
	}

	h.Log.Info("lesson created",
		zap.String("module_id", moduleID),
		zap.String("lesson_id", l.ID),
		zap.Int("lesson_number", l.Position))
	uierrors.WriteJSON(w, http.StatusCreated, l)
}
