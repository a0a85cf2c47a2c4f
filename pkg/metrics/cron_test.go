package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "auto-settle"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)
	metrics.AddProcessed(job, 42)
	metrics.AddRowErrors(job, 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for name, want := range map[string]float64{
		"job_success":        1,
		"job_failure":        1,
		"job_rows_processed": 42,
		"job_row_errors":     3,
	} {
		got, err := fetchCounterValue(mfs, name, "job", job)
		if err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s = %f, want %f", name, got, want)
		}
	}

	if got, err := fetchHistogramSum(mfs, "job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var metrics *CronJobMetrics
	metrics.IncSuccess("whatever")
	metrics.IncFailure("whatever")
	metrics.ObserveDuration("whatever", time.Second)
	metrics.AddProcessed("whatever", 1)
	metrics.AddRowErrors("whatever", 1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, m := range mf.GetMetric() {
		if hasLabel(m, label, value) {
			return m.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, m := range mf.GetMetric() {
		if hasLabel(m, label, value) {
			return m.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func hasLabel(m *dto.Metric, label, value string) bool {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == label && pair.GetValue() == value {
			return true
		}
	}
	return false
}
