package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total number of users created",
		},
	)

	UserReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_reads_total",
			Help: "Total number of user reads by outcome",
		},
		[]string{"outcome"},
	)
)
