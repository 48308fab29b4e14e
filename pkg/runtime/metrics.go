package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects runtime instrumentation. All methods are nil-safe so
// an unconfigured runtime pays only a nil check.
type Metrics struct {
	mountsTotal    prometheus.Counter
	teardownsTotal prometheus.Counter
	backendOps     *prometheus.CounterVec
	reconcileMoves prometheus.Counter
	flushesTotal   prometheus.Counter
	flushedOps     prometheus.Counter
	renderSeconds  prometheus.Histogram
	liveBindings   prometheus.GaugeFunc
}

// MetricsOption configures metrics collection.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	registerer prometheus.Registerer
	namespace  string
}

// WithRegisterer sets the prometheus registerer. Defaults to the global
// default registerer.
func WithRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		c.registerer = reg
	}
}

// WithNamespace sets the metric namespace. Defaults to "filament".
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// NewMetrics creates and registers the runtime metric set. bindings may
// be nil, in which case the live-bindings gauge is omitted.
func NewMetrics(bindings *Bindings, opts ...MetricsOption) *Metrics {
	cfg := &metricsConfig{
		registerer: prometheus.DefaultRegisterer,
		namespace:  "filament",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	factory := promauto.With(cfg.registerer)
	m := &Metrics{
		mountsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "mounts_total",
			Help:      "Descriptions mounted into the output tree.",
		}),
		teardownsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "teardowns_total",
			Help:      "Output subtrees torn down.",
		}),
		backendOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "backend_ops_total",
			Help:      "Backend mutations issued, by operation.",
		}, []string{"op"}),
		reconcileMoves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "reconcile_moves_total",
			Help:      "Nodes repositioned by keyed reconciliation.",
		}),
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "scheduler_flushes_total",
			Help:      "Non-empty scheduler flushes.",
		}),
		flushedOps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "scheduler_flushed_ops_total",
			Help:      "Mutations drained by scheduler flushes.",
		}),
		renderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "render_duration_seconds",
			Help:      "Root render duration.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
	}

	if bindings != nil {
		m.liveBindings = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "live_bindings",
			Help:      "Output nodes with registered reactive bindings.",
		}, func() float64 {
			return float64(bindings.Len())
		})
	}

	return m
}

func (m *Metrics) countMount() {
	if m != nil {
		m.mountsTotal.Inc()
	}
}

func (m *Metrics) countTeardown() {
	if m != nil {
		m.teardownsTotal.Inc()
	}
}

func (m *Metrics) countOp(op string) {
	if m != nil {
		m.backendOps.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) countMove() {
	if m != nil {
		m.reconcileMoves.Inc()
	}
}

func (m *Metrics) countFlush(n int) {
	if m != nil {
		m.flushesTotal.Inc()
		m.flushedOps.Add(float64(n))
	}
}

func (m *Metrics) observeRender(seconds float64) {
	if m != nil {
		m.renderSeconds.Observe(seconds)
	}
}
