package swap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_swap_requests_created_total",
		Help: "Number of swap requests created.",
	})

	requestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_request_transitions_total",
		Help: "Number of swap request status transitions, by target status.",
	}, []string{"status"})
)
