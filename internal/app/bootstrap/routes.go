// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/curriculum"
	coursesfeature "github.com/dalemusser/coursehub/internal/app/features/courses"
	errorsfeature "github.com/dalemusser/coursehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/coursehub/internal/app/features/health"
	lessonsfeature "github.com/dalemusser/coursehub/internal/app/features/lessons"
	modulesfeature "github.com/dalemusser/coursehub/internal/app/features/modules"
	"github.com/dalemusser/coursehub/internal/app/system/requestlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return NewRouter(deps.Curriculum, appCfg.LogRequests, logger), nil
}

// NewRouter mounts every feature on svc. Tests build it directly.
func NewRouter(svc *curriculum.Service, logRequests bool, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if logRequests {
		r.Use(requestlog.Middleware(logger))
	}

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(svc, svc.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Courses
	coursesHandler := coursesfeature.NewHandler(svc, errLog, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler))

	// Modules: ordered within a course
	modulesHandler := modulesfeature.NewHandler(svc, errLog, logger)
	r.Mount("/courses/{courseID}/modules", modulesfeature.CourseRoutes(modulesHandler))
	r.Mount("/modules", modulesfeature.Routes(modulesHandler))

	// Lessons: ordered within a module
	lessonsHandler := lessonsfeature.NewHandler(svc, errLog, logger)
	r.Mount("/modules/{moduleID}/lessons", lessonsfeature.ModuleRoutes(lessonsHandler))
	r.Mount("/lessons", lessonsfeature.Routes(lessonsHandler))

	return r
}
