// internal/app/features/lessons/list.go
package lessons

import (
	"net/http"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /modules/{moduleID}/lessons, ordered by lesson_number.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	list, err := h.Svc.Lessons.List(ctx, chi.URLParam(r, "moduleID"))
	if err != nil {
		h.ErrLog.Render(w, r, "list lessons", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeView handles GET /lessons/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	l, err := h.Svc.Lessons.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Render(w, r, "get lesson", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, l)
}
