package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// InteractionsTotal counts controller operations that ran
	InteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillgraph_interactions_total",
			Help: "Total number of interaction operations applied",
		},
		[]string{"op"},
	)

	// VisibleNodes tracks the size of the filtered graph
	VisibleNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillgraph_visible_nodes",
			Help: "Number of nodes in the filtered graph",
		},
	)

	// VisibleLinks tracks the edge count of the filtered graph
	VisibleLinks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillgraph_visible_links",
			Help: "Number of links in the filtered graph",
		},
	)

	// SimulationTicksTotal counts physics steps
	SimulationTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillgraph_simulation_ticks_total",
			Help: "Total number of force simulation steps",
		},
	)

	// SimulationAlpha tracks the current simulation temperature
	SimulationAlpha = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skillgraph_simulation_alpha",
			Help: "Current force simulation alpha",
		},
	)

	// EngineStopsTotal counts simulation cool-downs
	EngineStopsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillgraph_engine_stops_total",
			Help: "Total number of times the simulation cooled down",
		},
	)

	// FrameSeconds tracks time spent painting a frame
	FrameSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillgraph_frame_seconds",
			Help:    "Time spent producing one frame",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
	)

	// APIRequestsTotal counts HTTP requests by route and status
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillgraph_api_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"route", "status"},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(InteractionsTotal)
	prometheus.MustRegister(VisibleNodes)
	prometheus.MustRegister(VisibleLinks)
	prometheus.MustRegister(SimulationTicksTotal)
	prometheus.MustRegister(SimulationAlpha)
	prometheus.MustRegister(EngineStopsTotal)
	prometheus.MustRegister(FrameSeconds)
	prometheus.MustRegister(APIRequestsTotal)
}
