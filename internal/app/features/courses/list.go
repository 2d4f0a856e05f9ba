// internal/app/features/courses/list.go
package courses

import (
	"net/http"

	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /courses.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	list, err := h.Svc.Courses(ctx)
	if err != nil {
		h.ErrLog.Render(w, r, "list courses", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeView handles GET /courses/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	c, err := h.Svc.Course(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Render(w, r, "get course", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, c)
}
