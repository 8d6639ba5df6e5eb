package documents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var documentsGenerated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "will_documents_generated_total",
		Help: "Total number of will documents rendered to disk",
	},
)
