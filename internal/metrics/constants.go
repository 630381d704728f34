package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameSimulationsSubmitted  = "simulations_submitted_total"
	MetricNameSimulationsFinished   = "simulations_finished_total"
	MetricNameSimulationDuration    = "simulation_duration_seconds"
	MetricNameSimulationQueueDepth  = "simulation_queue_depth"
	MetricNameProfilesParsed        = "profiles_parsed_total"
	MetricNameCombinationsGenerated = "combinations_generated_total"
	MetricNameUpstreamRequests      = "upstream_requests_total"
	MetricNameCacheHits             = "cache_hits_total"
	MetricNameCacheMisses           = "cache_misses_total"
	MetricNameStreamClients         = "stream_clients_connected"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextSimulationsSubmitted  = "Total number of simulation jobs submitted"
	HelpTextSimulationsFinished   = "Total number of simulation jobs finished, by status"
	HelpTextSimulationDuration    = "Wall-clock duration of finished simulation runs in seconds"
	HelpTextSimulationQueueDepth  = "Current number of simulation jobs waiting for a worker"
	HelpTextProfilesParsed        = "Total number of addon exports parsed"
	HelpTextCombinationsGenerated = "Total number of gear combinations generated"
	HelpTextUpstreamRequests      = "Total number of upstream API requests, by endpoint and status"
	HelpTextCacheHits             = "Total number of cache hits, by tier"
	HelpTextCacheMisses           = "Total number of cache misses, by tier"
	HelpTextStreamClients         = "Current number of connected streaming clients"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelClass    = "class"
	LabelSpec     = "spec"
	LabelEndpoint = "endpoint"
	LabelTier     = "tier"
)

// Status label values for upstream request metrics
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SimulationDurationBuckets covers the expected simc run times: short smoke
// runs of a few seconds up to multi-minute full combination sweeps.
var SimulationDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200}
