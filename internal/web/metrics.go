package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tillbook_runs_total",
		Help: "Journal generation runs completed.",
	})
	imbalancedRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tillbook_imbalanced_runs_total",
		Help: "Runs whose journal did not balance.",
	})
	uploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tillbook_upload_failures_total",
		Help: "Uploads rejected before or during generation.",
	})
)
