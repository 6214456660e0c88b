package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry builds the registry served on the metrics endpoint: go runtime and
// process collectors, a fitlog_build_info gauge labelled with the running
// version, and the given extra collectors (the db pool stats in production).
func NewRegistry(versionInfo string, extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "fitlog",
		Name:        "build_info",
		Help:        "Always 1, labelled with the version of the running service.",
		ConstLabels: prometheus.Labels{"version": versionInfo},
	})
	buildInfo.Set(1)

	reg.MustRegister(
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(extra...)

	return reg
}
