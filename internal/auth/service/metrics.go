package service

import (
	"github.com/AlibekovAA/crudik/internal/observability/metrics"
)

func incrementJWTValidations() {
	metrics.JWTValidationsTotal.Inc()
}

func incrementJWTValidationFailures(reason UnauthorizedReason) {
	metrics.JWTValidationsFailed.WithLabelValues(string(reason)).Inc()
}

func incrementAuthUsersLinked() {
	metrics.AuthUsersLinked.Inc()
}

func incrementAuthUserLinkConflicts() {
	metrics.AuthUserLinkConflicts.Inc()
}
