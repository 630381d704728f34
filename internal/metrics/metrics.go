package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	SimulationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSimulationsSubmitted,
			Help: HelpTextSimulationsSubmitted,
		},
	)

	SimulationsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSimulationsFinished,
			Help: HelpTextSimulationsFinished,
		},
		[]string{LabelStatus},
	)

	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSimulationDuration,
			Help:    HelpTextSimulationDuration,
			Buckets: SimulationDurationBuckets,
		},
	)

	SimulationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSimulationQueueDepth,
			Help: HelpTextSimulationQueueDepth,
		},
	)

	ProfilesParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProfilesParsed,
			Help: HelpTextProfilesParsed,
		},
		[]string{LabelClass, LabelSpec},
	)

	CombinationsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCombinationsGenerated,
			Help: HelpTextCombinationsGenerated,
		},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRequests,
			Help: HelpTextUpstreamRequests,
		},
		[]string{LabelEndpoint, LabelStatus},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheHits,
			Help: HelpTextCacheHits,
		},
		[]string{LabelTier},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheMisses,
			Help: HelpTextCacheMisses,
		},
		[]string{LabelTier},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStreamClients,
			Help: HelpTextStreamClients,
		},
	)
)
