package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
	"github.com/AlibekovAA/crudik/internal/common/httpmetrics"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	"github.com/AlibekovAA/crudik/internal/observability/metrics"
)

// StatusResolver maps a known application error to its HTTP status. ok is
// false for errors that must be reported as internal, including coded
// application errors the resolver does not list.
type StatusResolver func(err error) (status int, appErr commonerrors.AppError, ok bool)

type ErrorHandler struct {
	log     *logger.Logger
	resolve StatusResolver
}

func NewErrorHandler(log *logger.Logger, resolve StatusResolver) *ErrorHandler {
	return &ErrorHandler{log: log, resolve: resolve}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if status, appErr, ok := h.resolve(err); ok {
		h.handleAppError(w, r, status, appErr, err)
		return
	}

	fields := logger.Fields{
		"error":  err.Error(),
		"path":   r.URL.Path,
		"method": r.Method,
	}
	if appErr, ok := commonerrors.AsAppError(err); ok {
		fields["error_code"] = appErr.Code()
		fields["meta"] = appErr.Meta()
		fields["action"] = "unmapped_app_error"
		h.log.WithFields(r.Context(), fields).Error("application error without status mapping")
	} else {
		fields["action"] = "unhandled_error"
		h.log.WithFields(r.Context(), fields).Critical("unhandled error")
	}

	internal := commonerrors.InternalServerError{}
	h.countError(r, http.StatusInternalServerError, internal.Code())
	WriteErrorEnvelope(w, http.StatusInternalServerError, internal.Code(), internal.Message(), nil)
}

func (h *ErrorHandler) handleAppError(w http.ResponseWriter, r *http.Request, status int, appErr commonerrors.AppError, err error) {
	h.log.WithFields(r.Context(), logger.Fields{
		"error_code": appErr.Code(),
		"status":     status,
		"meta":       appErr.Meta(),
		"action":     "app_error",
	}).Warnf("application error: %v", err)

	h.countError(r, status, appErr.Code())
	WriteErrorEnvelope(w, status, appErr.Code(), appErr.Message(), appErr.Meta())
}

func (h *ErrorHandler) countError(r *http.Request, status int, code string) {
	statusLabel := strconv.Itoa(status)
	metrics.AppErrorsTotal.WithLabelValues(code, statusLabel).Inc()
	metrics.HTTPErrorsTotal.WithLabelValues(statusLabel, httpmetrics.RoutePath(r), r.Method).Inc()
}
