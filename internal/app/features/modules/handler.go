// internal/app/features/modules/handler.go
package modules

import (
	"github.com/dalemusser/coursehub/internal/app/curriculum"
	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"go.uber.org/zap"
)

// Handler translates module requests into ordering-engine calls. It never
// computes positions itself.
type Handler struct {
	Svc    *curriculum.Service
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(svc *curriculum.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger, ErrLog: errLog}
}
