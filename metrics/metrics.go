package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records table maintenance of the sets it observes. It satisfies
// hashset.Observer and prometheus.Collector.
type Collector struct {
	resizes     prometheus.Counter
	compactions prometheus.Counter
	reclaimed   prometheus.Counter
	length      prometheus.Gauge
	probes      prometheus.Histogram
}

// NewCollector returns a Collector whose series carry the given constant
// labels.
func NewCollector(labels prometheus.Labels) *Collector {
	return &Collector{
		resizes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hashset",
			Name:        "resizes_total",
			Help:        "Number of times a table grew.",
			ConstLabels: labels,
		}),
		compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hashset",
			Name:        "compactions_total",
			Help:        "Number of in-place rehashes that reclaimed tombstones.",
			ConstLabels: labels,
		}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hashset",
			Name:        "tombstones_reclaimed_total",
			Help:        "Tombstones dropped by compactions.",
			ConstLabels: labels,
		}),
		length: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "hashset",
			Name:        "table_length",
			Help:        "Table length after the most recent resize or compaction.",
			ConstLabels: labels,
		}),
		probes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "hashset",
			Name:        "probe_length",
			Help:        "Slots examined per insert or lookup.",
			ConstLabels: labels,
			Buckets:     []float64{1, 2, 3, 4, 6, 8, 12, 16, 32},
		}),
	}
}

// Resized implements hashset.Observer.
func (c *Collector) Resized(oldLen, newLen, count int) {
	c.resizes.Inc()
	c.length.Set(float64(newLen))
}

// Compacted implements hashset.Observer.
func (c *Collector) Compacted(length, reclaimed int) {
	c.compactions.Inc()
	c.reclaimed.Add(float64(reclaimed))
	c.length.Set(float64(length))
}

// Probed implements hashset.Observer.
func (c *Collector) Probed(n int) {
	c.probes.Observe(float64(n))
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.resizes.Describe(ch)
	c.compactions.Describe(ch)
	c.reclaimed.Describe(ch)
	c.length.Describe(ch)
	c.probes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.resizes.Collect(ch)
	c.compactions.Collect(ch)
	c.reclaimed.Collect(ch)
	c.length.Collect(ch)
	c.probes.Collect(ch)
}
