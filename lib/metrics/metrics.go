package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cn-pmlabs/gosai/lib/log"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sai_operations_total",
			Help: "CRUD verbs issued against the object engine, by result status.",
		},
		[]string{"object", "verb", "status"},
	)

	liveObjects = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sai_objects_live",
			Help: "Live objects in the object table.",
		},
		[]string{"object"},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal, liveObjects)
}

// OperationObserved count one verb outcome
func OperationObserved(object, verb, status string) {
	operationsTotal.WithLabelValues(object, verb, status).Inc()
}

// ObjectAdded track one object entering the table
func ObjectAdded(object string) {
	liveObjects.WithLabelValues(object).Inc()
}

// ObjectRemoved track one object leaving the table
func ObjectRemoved(object string) {
	liveObjects.WithLabelValues(object).Dec()
}

// Serve expose the metric endpoint, blocking
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics listener %s stopped: %v\n", addr, err)
	}
}
