// Package metrics exposes Prometheus collectors for the monitoring cycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"stock_alert_backend/internal/feature/monitoring/domain"
	"stock_alert_backend/internal/feature/monitoring/usecase"
)

// MonitoringCollector turns cycle reports into Prometheus metrics.
type MonitoringCollector struct {
	cyclesTotal        *prometheus.CounterVec
	entryFailuresTotal *prometheus.CounterVec
	alertWriteFailures prometheus.Counter
	alertsTotal        *prometheus.CounterVec
	suppressedTotal    prometheus.Counter
	cycleDuration      prometheus.Histogram
	activeEntries      prometheus.Gauge
}

var _ usecase.CycleObserver = (*MonitoringCollector)(nil)

// NewMonitoringCollector creates the collectors and registers them on reg.
func NewMonitoringCollector(reg prometheus.Registerer) *MonitoringCollector {
	c := &MonitoringCollector{
		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_alert_monitor_cycles_total",
				Help: "Monitoring cycles by outcome",
			},
			[]string{"outcome"},
		),
		entryFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_alert_monitor_entry_failures_total",
				Help: "Watch entries skipped in a cycle, by stage and cause",
			},
			[]string{"stage", "cause"},
		),
		alertWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_alert_monitor_alert_write_failures_total",
			Help: "Crossings dropped because the alert could not be written",
		}),
		alertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_alert_monitor_alerts_total",
				Help: "Alerts recorded by kind",
			},
			[]string{"kind"},
		),
		suppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_alert_monitor_suppressed_total",
			Help: "Crossings suppressed by the dedup window",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_alert_monitor_cycle_duration_seconds",
			Help:    "Wall time of a monitoring cycle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		activeEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stock_alert_monitor_active_entries",
			Help: "Active watch entries seen by the last cycle",
		}),
	}
	reg.MustRegister(
		c.cyclesTotal,
		c.entryFailuresTotal,
		c.alertWriteFailures,
		c.alertsTotal,
		c.suppressedTotal,
		c.cycleDuration,
		c.activeEntries,
	)
	return c
}

// ObserveCycle records one finished cycle.
func (c *MonitoringCollector) ObserveCycle(r usecase.CycleReport) {
	if r.Err != nil {
		c.cyclesTotal.WithLabelValues("abandoned").Inc()
		return
	}
	outcome := "ok"
	if r.FailedCount() > 0 {
		outcome = "partial"
	}
	c.cyclesTotal.WithLabelValues(outcome).Inc()
	c.cycleDuration.Observe(r.Duration().Seconds())
	c.activeEntries.Set(float64(len(r.Entries)))

	for _, e := range r.Entries {
		if e.Failed() {
			c.entryFailuresTotal.WithLabelValues(string(e.Stage), causeLabel(e.Err)).Inc()
		}
		c.alertWriteFailures.Add(float64(len(e.WriteErrors)))
		c.suppressedTotal.Add(float64(len(e.Suppressed)))
		for _, a := range e.Alerts {
			c.alertsTotal.WithLabelValues(string(a.Kind)).Inc()
		}
	}
}

func causeLabel(err error) string {
	if cause := domain.FetchCauseOf(err); cause != 0 {
		return cause.String()
	}
	return "other"
}
