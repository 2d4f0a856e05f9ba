// internal/app/features/modules/delete.go
package modules

import (
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleDelete handles DELETE /modules/{id}. Its lessons are deleted and the
// following modules move up by one.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	if err := h.Svc.RemoveModule(ctx, chi.URLParam(r, "id")); err != nil {
		h.ErrLog.Render(w, r, "delete module", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
