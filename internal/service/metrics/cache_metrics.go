package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agricast",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Prediction cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	CacheErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agricast",
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Prediction cache backend errors by operation",
		},
		[]string{"backend", "op"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(CacheLookups, CacheErrors)
	})
}
