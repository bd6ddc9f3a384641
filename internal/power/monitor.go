package power

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var signalQualityTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gnsslens_signal_quality_transitions_total",
		Help: "Number of GNSS signal-quality level transitions reported.",
	},
	[]string{"level"},
)

const (
	// PoorThresholdDbHz is the top-4 average CN0 at or below which signal
	// quality is classified poor.
	PoorThresholdDbHz = 20.0

	// reportingThresholdDbHz is the minimum change in top-4 average CN0
	// needed before any update is made. Smaller fluctuations are noise.
	reportingThresholdDbHz = 1.0

	// sentinelAvgCn0 is below any physically possible reading, so the
	// first sample always passes the reporting gate.
	sentinelAvgCn0 = -100.0
)

// Monitor converts per-sample CN0 arrays into a debounced signal-quality
// classification and forwards it to the battery-stats sink. Its state
// tracks the live external system, so it deliberately survives the owning
// aggregator's periodic reset.
type Monitor struct {
	battery BatteryStats // may be nil; local state still updates
	logger  *zap.Logger

	lastAvgCn0 float64
	lastLevel  Level
}

// NewMonitor creates a Monitor reporting to the given battery-stats sink.
func NewMonitor(battery BatteryStats, logger *zap.Logger) *Monitor {
	return &Monitor{
		battery:    battery,
		logger:     logger,
		lastAvgCn0: sentinelAvgCn0,
		lastLevel:  LevelUnknown,
	}
}

// ReportSample classifies one satellite-signal sample. ascendingCn0 must be
// sorted ascending; only the top min(numSv, 4) values contribute. numSv == 0
// means no satellites visible and is treated as average 0. Updates are
// suppressed entirely while the average stays within the reporting
// threshold of the last reported one.
func (m *Monitor) ReportSample(ascendingCn0 []float64, numSv int) {
	avgCn0 := 0.0
	if numSv > 0 {
		for i := max(0, numSv-4); i < numSv; i++ {
			avgCn0 += ascendingCn0[i]
		}
		avgCn0 /= float64(min(numSv, 4))
	}
	if math.Abs(avgCn0-m.lastAvgCn0) < reportingThresholdDbHz {
		return
	}

	level := classify(avgCn0)
	if level != m.lastLevel {
		signalQualityTransitions.WithLabelValues(level.String()).Inc()
		m.logger.Info("GNSS signal quality changed",
			zap.Stringer("level", level),
			zap.Float64("top4_avg_cn0_dbhz", avgCn0),
		)
		m.lastLevel = level
	}

	if m.battery != nil {
		if err := m.battery.NoteSignalQuality(level); err != nil {
			m.logger.Warn("Failed to report signal quality to battery stats", zap.Error(err))
		}
	}
	m.lastAvgCn0 = avgCn0
}

// LastLevel returns the most recently reported classification.
func (m *Monitor) LastLevel() Level {
	return m.lastLevel
}

// BatteryStats queries the sink, logging and reporting ok=false on failure
// or when no sink is attached.
func (m *Monitor) BatteryStats() (Stats, bool) {
	if m.battery == nil {
		return Stats{}, false
	}
	stats, err := m.battery.GetStats()
	if err != nil {
		m.logger.Warn("Failed to query battery stats", zap.Error(err))
		return Stats{}, false
	}
	return stats, true
}

func classify(avgCn0 float64) Level {
	if avgCn0 > PoorThresholdDbHz {
		return LevelGood
	}
	return LevelPoor
}
