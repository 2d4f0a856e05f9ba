// internal/app/features/lessons/routes.go
package lessons

import "github.com/go-chi/chi/v5"

// ModuleRoutes serves the ordered lesson list of one module. Mount it at
// "/modules/{moduleID}/lessons".
func ModuleRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	return r
}

// Routes serves single lessons. Mount it at "/lessons".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeView)
	r.Patch("/{id}", h.HandleEdit)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
