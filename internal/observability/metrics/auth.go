package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_total",
			Help: "Total number of access token validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed access token validations by reason",
		},
		[]string{"reason"},
	)

	AuthUsersLinked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_users_linked_total",
			Help: "Total number of external identities linked to users",
		},
	)

	AuthUserLinkConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_user_link_conflicts_total",
			Help: "Total number of rejected links for already bound identities",
		},
	)
)
