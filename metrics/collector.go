// FILE: lixenwraith/ringlog/metrics/collector.go
// Package metrics exports logger statistics to Prometheus.
package metrics

import (
	"github.com/lixenwraith/ringlog"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is implemented by *ringlog.Logger
type StatsSource interface {
	Stats() ringlog.StatsSnapshot
}

// Collector reads a stats snapshot on every scrape, so counters are never
// duplicated in Prometheus client state.
type Collector struct {
	src StatsSource

	records     *prometheus.Desc
	evicted     *prometheus.Desc
	contended   *prometheus.Desc
	drained     *prometheus.Desc
	truncated   *prometheus.Desc
	writeErrors *prometheus.Desc
	capacity    *prometheus.Desc
	used        *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for src. Metric names start with namespace,
// "ringlog" when empty; constLabels are attached to every metric.
func NewCollector(src StatsSource, namespace string, constLabels prometheus.Labels) *Collector {
	if namespace == "" {
		namespace = "ringlog"
	}
	return &Collector{
		src: src,
		records: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records_total"),
			"Records submitted to an initialized logger, by admission outcome",
			[]string{"outcome"}, constLabels),
		evicted: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "evicted_total"),
			"Logged records discarded before draining to make room",
			nil, constLabels),
		contended: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "contended_retries_total"),
			"Producer CAS attempts lost to another producer or the drain loop and retried",
			nil, constLabels),
		drained: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "drained_total"),
			"Records rendered to the output",
			nil, constLabels),
		truncated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "truncated_total"),
			"Records cut to max_line_bytes when rendered",
			nil, constLabels),
		writeErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "write_errors_total"),
			"Failed writes to the output",
			nil, constLabels),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ring", "capacity_bytes"),
			"Ring size in bytes",
			nil, constLabels),
		used: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ring", "used_bytes"),
			"Bytes queued in the ring",
			nil, constLabels),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.records
	ch <- c.evicted
	ch <- c.contended
	ch <- c.drained
	ch <- c.truncated
	ch <- c.writeErrors
	ch <- c.capacity
	ch <- c.used
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	// Each submitted record has exactly one outcome
	outcomes := []struct {
		name  string
		value uint64
	}{
		{"logged", s.Logged},
		{"filtered", s.Filtered},
		{"oversize", s.Oversize},
		{"corrupt", s.Corrupt},
	}
	for _, o := range outcomes {
		ch <- prometheus.MustNewConstMetric(c.records, prometheus.CounterValue, float64(o.value), o.name)
	}

	ch <- prometheus.MustNewConstMetric(c.evicted, prometheus.CounterValue, float64(s.Evicted))
	ch <- prometheus.MustNewConstMetric(c.contended, prometheus.CounterValue, float64(s.Contended))

	ch <- prometheus.MustNewConstMetric(c.drained, prometheus.CounterValue, float64(s.Drained))
	ch <- prometheus.MustNewConstMetric(c.truncated, prometheus.CounterValue, float64(s.Truncated))
	ch <- prometheus.MustNewConstMetric(c.writeErrors, prometheus.CounterValue, float64(s.WriteErrors))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(s.Used))
}
