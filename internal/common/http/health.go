package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/crudik/internal/common/logger"
	"github.com/AlibekovAA/crudik/internal/observability/metrics"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func AliveHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadyHandler answers 200 when the database responds and 429 otherwise.
func ReadyHandler(db Pinger, timeout time.Duration, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			metrics.DBReadinessChecksFailed.Inc()
			log.WithFields(r.Context(), logger.Fields{
				"error":  err.Error(),
				"action": "readiness_check",
			}).Warn("database is not ready")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
