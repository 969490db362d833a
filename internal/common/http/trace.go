package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
	"github.com/AlibekovAA/crudik/internal/common/logger"
)

type TraceConfig struct {
	Header   string
	Required bool
}

type MissingTraceIDError struct {
	Header string
}

func (e MissingTraceIDError) Error() string   { return "missing trace id header " + e.Header }
func (e MissingTraceIDError) Code() string    { return CodeMissingTraceID }
func (e MissingTraceIDError) Message() string { return "Missing trace id" }
func (e MissingTraceIDError) Meta() commonerrors.Meta {
	return commonerrors.Meta{"header": e.Header}
}

var tracedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// TraceIDMiddleware stores the request trace id in the context and echoes it
// back. A missing id is generated unless cfg.Required is set, in which case
// the request is rejected through errs. Other methods such as HEAD and
// OPTIONS pass through untraced.
func TraceIDMiddleware(cfg TraceConfig, errs *ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tracedMethods[r.Method]; !ok {
				next.ServeHTTP(w, r)
				return
			}

			traceID := strings.TrimSpace(r.Header.Get(cfg.Header))
			if traceID == "" {
				if cfg.Required {
					errs.HandleError(w, r, MissingTraceIDError{Header: cfg.Header})
					return
				}
				traceID = NewTraceID()
			}

			w.Header().Set(cfg.Header, traceID)
			next.ServeHTTP(w, r.WithContext(logger.WithTraceID(r.Context(), traceID)))
		})
	}
}

// NewTraceID returns a random UUID in 32 character hex form.
func NewTraceID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}
