// internal/app/features/lessons/handler.go
package lessons

import (
	"github.com/dalemusser/coursehub/internal/app/curriculum"
	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"go.uber.org/zap"
)

// Handler serves lessons. Lesson numbers are owned by the lesson engine and
// scoped to the parent module.
type Handler struct {
	Svc    *curriculum.Service
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(svc *curriculum.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger, ErrLog: errLog}
}
