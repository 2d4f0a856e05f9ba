// internal/app/features/modules/create.go
package modules

import (
	"net/http"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate handles POST /courses/{courseID}/modules.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := formutil.Bind(w, r, &in); err != nil {
		h.ErrLog.Render(w, r, "create module", err)
		return
	}
	if in.ModuleNumber.IsNull() {
		h.ErrLog.Render(w, r, "create module", &sequence.ValidationError{Field: "module_number", Message: "must not be null"})
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	courseID := chi.URLParam(r, "courseID")
	m := &models.Module{Name: normalize.Name(in.Name)}

	var err error
	if pos, ok := in.ModuleNumber.Get(); ok {
		m, err = h.Svc.Modules.Insert(ctx, courseID, pos, m)
	} else {
		m, err = h.Svc.Modules.Append(ctx, courseID, m)
	}
	if err != nil {
		h.ErrLog.Render(w, r, "create module", err)
		return
	}

	h.Log.Info("module created",
		zap.String("course_id", courseID),
		zap.String("module_id", m.ID),
		zap.Int("module_number", m.Position))
	uierrors.WriteJSON(w, http.StatusCreated, m)
}
