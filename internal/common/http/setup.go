package http

import (
	"net/http"

	"github.com/AlibekovAA/crudik/internal/common/constants"
	"github.com/AlibekovAA/crudik/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middlewares every request passes
// through, outermost first: security headers, trace id, panic recovery, body
// size limit.
func BuildBaseHandler(log *logger.Logger, trace TraceConfig, errs *ErrorHandler, handler http.Handler) http.Handler {
	traceID := TraceIDMiddleware(trace, errs)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(traceID(recovery(maxRequestSize(handler))))
}
