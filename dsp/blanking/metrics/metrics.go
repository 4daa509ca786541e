// Package metrics exports pulse blanking filter counters as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
)

const namespace = "pulse_blanking"

// Source is the read-only view of a filter the collector scrapes.
// *blanking.Filter satisfies it.
type Source interface {
	Stats() blanking.Stats
	State() blanking.EstimatorState
	Model() blanking.NoiseModel
}

// Collector implements prometheus.Collector over a [Source].
//
// Scrapes read the source directly. A Filter is not safe for concurrent use,
// so when it is processing on another goroutine the caller must wrap it in a
// Source that takes the same lock as the processing loop.
type Collector struct {
	src Source

	segments   *prometheus.Desc
	learning   *prometheus.Desc
	blanked    *prometheus.Desc
	resets     *prometheus.Desc
	degenerate *prometheus.Desc
	samples    *prometheus.Desc
	noisePower *prometheus.Desc
	threshold  *prometheus.Desc
	rate       *prometheus.Desc
}

// NewCollector returns a collector for src. constLabels are attached to
// every metric and may be nil.
func NewCollector(src Source, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, constLabels)
	}

	return &Collector{
		src:        src,
		segments:   desc("segments_total", "Segments processed."),
		learning:   desc("learning_segments_total", "Segments used to update the noise estimate."),
		blanked:    desc("blanked_segments_total", "Segments replaced by zeros."),
		resets:     desc("resets_total", "Times the learning window was re-opened."),
		degenerate: desc("degenerate_segments_total", "Detecting segments passed because the noise estimate was unusable."),
		samples:    desc("samples_total", "Input samples consumed."),
		noisePower: desc("noise_power", "Current noise power estimate per degree of freedom."),
		threshold:  desc("threshold", "Detection threshold on the normalised segment energy."),
		rate:       desc("blanking_ratio", "Fraction of detecting segments that were blanked."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.segments
	ch <- c.learning
	ch <- c.blanked
	ch <- c.resets
	ch <- c.degenerate
	ch <- c.samples
	ch <- c.noisePower
	ch <- c.threshold
	ch <- c.rate
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := snapshotOf(c.src)
	st, state, model := snap.Stats, snap.State, snap.Model

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(c.segments, st.Segments)
	counter(c.learning, st.Learning)
	counter(c.blanked, st.Blanked)
	counter(c.resets, st.Resets)
	counter(c.degenerate, st.Degenerate)
	counter(c.samples, st.Samples)
	gauge(c.noisePower, state.NoisePower)
	gauge(c.threshold, model.Threshold())
	gauge(c.rate, st.BlankingRate())
}
