// internal/app/features/modules/edit.go
package modules

import (
	"net/http"
	"unicode/utf8"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleEdit handles PATCH /modules/{id}. A present module_number moves the
// module; siblings are renumbered in the same transaction.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var in editInput
	if err := formutil.Decode(w, r, &in); err != nil {
		h.ErrLog.Render(w, r, "edit module", err)
		return
	}
	if err := in.check(); err != nil {
		h.ErrLog.Render(w, r, "edit module", err)
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	m, err := h.Svc.Modules.Reposition(ctx, chi.URLParam(r, "id"), in.ModuleNumber, func(m *models.Module) error {
		if v, ok := in.Name.Get(); ok {
			m.Name = normalize.Name(v)
		}
		return nil
	})
	if err != nil {
		h.ErrLog.Render(w, r, "edit module", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m)
}

func (in editInput) check() error {
	if in.Name.IsNull() {
		return &sequence.ValidationError{Field: "name", Message: "must not be null"}
	}
	if v, ok := in.Name.Get(); ok && utf8.RuneCountInString(v) > 255 {
		return &sequence.ValidationError{Field: "name", Message: "must be at most 255 characters"}
	}
	return nil
}
