package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records metadata for scheduled jobs.
type CronJobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	processed *prometheus.CounterVec
	rowErrors *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of cron jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed cron job executions.",
	}, []string{"job"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_rows_processed",
		Help: "Rows a job transitioned during its runs.",
	}, []string{"job"})
	rowErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_row_errors",
		Help: "Per-row failures isolated inside a job run.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, processed, rowErrors)
	return &CronJobMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		processed: processed,
		rowErrors: rowErrors,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// AddProcessed accumulates the number of rows a job run transitioned.
func (c *CronJobMetrics) AddProcessed(job string, rows int) {
	if c == nil || c.processed == nil || rows <= 0 {
		return
	}
	c.processed.WithLabelValues(normalizeLabel(job)).Add(float64(rows))
}

// AddRowErrors accumulates isolated per-row failures for a job run.
func (c *CronJobMetrics) AddRowErrors(job string, rows int) {
	if c == nil || c.rowErrors == nil || rows <= 0 {
		return
	}
	c.rowErrors.WithLabelValues(normalizeLabel(job)).Add(float64(rows))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
