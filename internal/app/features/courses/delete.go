// internal/app/features/courses/delete.go
package courses

import (
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleDelete handles DELETE /courses/{id}. Modules and lessons of the
// course go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Svc.DeleteCourse(ctx, chi.URLParam(r, "id")); err != nil {
		h.ErrLog.Render(w, r, "delete course", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
