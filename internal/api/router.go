package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlibekovAA/crudik/internal/common/constants"
	commonhttp "github.com/AlibekovAA/crudik/internal/common/http"
	"github.com/AlibekovAA/crudik/internal/common/httpmetrics"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userhttp "github.com/AlibekovAA/crudik/internal/user/http"
)

type RouterConfig struct {
	Log       *logger.Logger
	Trace     commonhttp.TraceConfig
	Readiness commonhttp.Pinger
	Scopes    userhttp.ScopeFactory
}

// NewRouter assembles the full HTTP surface: health endpoints, metrics and
// the user API, wrapped in the common middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	errs := NewErrorHandler(cfg.Log)

	r := chi.NewRouter()
	r.Use(httpmetrics.New(constants.ServiceName).Wrap)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "Method Not Allowed", nil)
	})

	r.Get("/internal/alive", commonhttp.AliveHandler)
	r.Get("/internal/ready", commonhttp.ReadyHandler(cfg.Readiness, constants.ReadinessTimeout, cfg.Log))
	r.Handle("/metrics", promhttp.Handler())

	userhttp.NewHandler(cfg.Scopes, errs, cfg.Log, constants.RequestTimeout).Routes(r)

	return commonhttp.BuildBaseHandler(cfg.Log, cfg.Trace, errs, r)
}
