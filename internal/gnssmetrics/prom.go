package gnssmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics, set from the snapshot on each export so the last
// completed reporting interval is scrapeable.
var (
	statCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gnsslens_interval_statistic_count",
			Help: "Number of samples recorded for a statistic in the last exported interval.",
		},
		[]string{"statistic"},
	)
	statMean = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gnsslens_interval_statistic_mean",
			Help: "Mean of a statistic in the last exported interval.",
		},
		[]string{"statistic"},
	)
	statStdDev = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gnsslens_interval_statistic_stddev",
			Help: "Population standard deviation of a statistic in the last exported interval.",
		},
		[]string{"statistic"},
	)
	exportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gnsslens_exports_total",
			Help: "Number of summary exports performed.",
		},
	)
	exportFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gnsslens_export_failures_total",
			Help: "Number of summary exports that failed to encode.",
		},
	)
)

func publishGauges(snap Snapshot) {
	setStatGauges("location_failures", snap.LocationFailures)
	setStatGauges("time_to_first_fix_sec", snap.TimeToFirstFixSec)
	setStatGauges("position_accuracy_m", snap.PositionAccuracyM)
	setStatGauges("top_four_avg_cn0_dbhz", snap.TopFourAvgCn0DbHz)
}

func setStatGauges(name string, s *StatSummary) {
	if s == nil {
		statCount.WithLabelValues(name).Set(0)
		statMean.WithLabelValues(name).Set(0)
		statStdDev.WithLabelValues(name).Set(0)
		return
	}
	statCount.WithLabelValues(name).Set(float64(s.Count))
	statMean.WithLabelValues(name).Set(s.Mean)
	statStdDev.WithLabelValues(name).Set(s.StdDev)
}
