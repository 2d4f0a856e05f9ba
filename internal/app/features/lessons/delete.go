// internal/app/features/lessons/delete.go
package lessons

import (
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleDelete handles DELETE /lessons/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Svc.Lessons.Remove(ctx, chi.URLParam(r, "id")); err != nil {
		h.ErrLog.Render(w, r, "delete lesson", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
