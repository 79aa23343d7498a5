package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns a private registry so several apps (tests) can coexist in one
// process.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ServiceRequestsCreatedTotal prometheus.Counter
	ServiceRequestUpdatesTotal  *prometheus.CounterVec
	DiagnosisRequestsTotal      *prometheus.CounterVec
	DiagnosisDuration           prometheus.Histogram
	LoginAttemptsTotal          *prometheus.CounterVec
	ServiceAreaLookupsTotal     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		ServiceRequestsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "service_requests_created_total",
				Help: "Total number of service requests submitted",
			},
		),

		ServiceRequestUpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_request_updates_total",
				Help: "Total number of admin updates by field",
			},
			[]string{"field"},
		),

		DiagnosisRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagnosis_requests_total",
				Help: "Total number of diagnosis requests by outcome",
			},
			[]string{"outcome"},
		),

		DiagnosisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "diagnosis_duration_seconds",
				Help:    "Duration of calls to the diagnosis provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
		),

		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_login_attempts_total",
				Help: "Total number of admin login attempts by outcome",
			},
			[]string{"outcome"},
		),

		ServiceAreaLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_area_lookups_total",
				Help: "Total number of service area lookups",
			},
			[]string{"available"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ServiceRequestsCreatedTotal,
		m.ServiceRequestUpdatesTotal,
		m.DiagnosisRequestsTotal,
		m.DiagnosisDuration,
		m.LoginAttemptsTotal,
		m.ServiceAreaLookupsTotal,
	)

	return m
}
