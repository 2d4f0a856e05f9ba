// internal/app/features/modules/routes.go
package modules

import "github.com/go-chi/chi/v5"

// CourseRoutes serves the ordered module list of one course. Mount it at
// "/courses/{courseID}/modules".
func CourseRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/check", h.ServeCheck)
	return r
}

// Routes serves single modules. Mount it at "/modules".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeView)
	r.Patch("/{id}", h.HandleEdit)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
