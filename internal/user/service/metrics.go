package service

import (
	"github.com/AlibekovAA/crudik/internal/observability/metrics"
)

const (
	outcomeOK           = "ok"
	outcomeNotFound     = "not_found"
	outcomeDenied       = "denied"
	outcomeUnauthorized = "unauthorized"
)

func incrementUsersCreated() {
	metrics.UsersCreated.Inc()
}

func incrementUserReads(outcome string) {
	metrics.UserReads.WithLabelValues(outcome).Inc()
}
