package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "webui_backend_requests_total",
	Help: "Backend gateway calls by operation and outcome.",
}, []string{"op", "outcome"})
