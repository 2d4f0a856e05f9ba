// internal/app/features/courses/routes.go
package courses

import "github.com/go-chi/chi/v5"

// Routes mounts the course routes, typically at "/courses":
//
//	GET    /        list
//	POST   /        create
//	GET    /{id}    view
//	PATCH  /{id}    edit
//	DELETE /{id}    delete (cascades to modules and lessons)
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeView)
	r.Patch("/{id}", h.HandleEdit)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
