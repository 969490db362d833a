package http

import (
	"net/http"
	"runtime/debug"

	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	"github.com/AlibekovAA/crudik/internal/observability/metrics"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					metrics.PanicsRecovered.Inc()
					log.WithFields(r.Context(), logger.Fields{"action": "panic_recovered"}).
						Criticalf("panic recovered: %v\n%s", rec, debug.Stack())
					internal := commonerrors.InternalServerError{}
					WriteErrorEnvelope(w, http.StatusInternalServerError, internal.Code(), internal.Message(), nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
