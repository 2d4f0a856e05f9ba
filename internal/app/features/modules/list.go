// internal/app/features/modules/list.go
package modules

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /courses/{courseID}/modules, ordered by module_number.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	list, err := h.Svc.Modules.List(ctx, chi.URLParam(r, "courseID"))
	if err != nil {
		h.ErrLog.Render(w, r, "list modules", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeView handles GET /modules/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	m, err := h.Svc.Modules.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Render(w, r, "get module", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m)
}

// ServeCheck handles GET /courses/{courseID}/modules/check. It reports
// whether the stored module numbers are exactly 1..n.
func (h *Handler) ServeCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	courseID := chi.URLParam(r, "courseID")
	list, err := h.Svc.Modules.List(ctx, courseID)
	if err != nil {
		h.ErrLog.Render(w, r, "check modules", err)
		return
	}

	res := checkResult{CourseID: courseID, Count: len(list), Dense: true}
	if err := sequence.Verify(list); err != nil {
		if !errors.Is(err, sequence.ErrNotDense) {
			h.ErrLog.Render(w, r, "check modules", err)
			return
		}
		res.Dense = false
		res.Problem = err.Error()
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}
