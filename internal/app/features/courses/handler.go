// internal/app/features/courses/handler.go
package courses

import (
	"github.com/dalemusser/coursehub/internal/app/curriculum"
	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"go.uber.org/zap"
)

// Handler serves the course collection and single-course endpoints. The
// ordered module list of a course lives in the modules feature.
type Handler struct {
	Svc    *curriculum.Service
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(svc *curriculum.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger, ErrLog: errLog}
}
