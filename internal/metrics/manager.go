package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterEventsIngested  prometheus.Counter
	CounterEventsDuplicate prometheus.Counter
	CounterUnmapped        prometheus.Counter
	CounterPlans           *prometheus.CounterVec
	CounterUpstreamErrors  *prometheus.CounterVec

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistPlanSlots       prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("repcoach", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("repcoach", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterEventsIngested := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fatigue_events_ingested",
		Help:      "The total number of stored fatigue events",
	})
	counterEventsDuplicate := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fatigue_events_duplicate",
		Help:      "The total number of fatigue events skipped as duplicates",
	})
	counterUnmapped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "activities_unmapped",
		Help:      "The total number of activities with no fatigue mapping",
	})
	counterPlans := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plans_generated",
		Help:      "The total number of generated sessions",
	}, []string{"goal"})
	counterUpstreamErrors := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "upstream_errors",
		Help:      "The total number of failed storage operations",
	}, []string{"op"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
	)
	histPlanSlots := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
			Name:      "plan_slots",
			Help:      "Number of exercises in generated sessions",
		},
	)

	return &Manager{
		CounterRequests:        counterRequests,
		CounterEventsIngested:  counterEventsIngested,
		CounterEventsDuplicate: counterEventsDuplicate,
		CounterUnmapped:        counterUnmapped,
		CounterPlans:           counterPlans,
		CounterUpstreamErrors:  counterUpstreamErrors,
		GaugeRequests:          gaugeRequests,
		HistRequestDuration:    histReqDuration,
		HistPlanSlots:          histPlanSlots,
	}
}
