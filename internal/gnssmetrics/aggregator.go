// Package gnssmetrics aggregates positioning-quality measurements into
// per-interval running statistics and exports them as an opaque encoded
// summary. It keeps no raw samples: every statistic is an online
// count/sum/sum-of-squares accumulator.
package gnssmetrics

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/platform"
	"github.com/sanspareilsmyn/gnsslens/internal/power"
	"github.com/sanspareilsmyn/gnsslens/internal/stats"
)

const (
	// defaultTimeBetweenFixesMs floors the requested fix interval when
	// deriving missed reports.
	defaultTimeBetweenFixesMs = 1000

	// HardwareRevisionKey is the platform property carrying the hardware
	// revision string, read fresh on every export.
	HardwareRevisionKey = "ro.boot.revision"

	millisPerHour = 3600 * 1000
)

// Aggregator ingests positioning measurements and owns the per-interval
// statistics, the observed-constellation set and the signal-quality
// monitor. One mutex serializes ingestion and export; a reset racing an
// AddItem would otherwise lose or duplicate samples.
type Aggregator struct {
	logger  *zap.Logger
	clock   platform.Clock
	props   platform.Properties
	encoder Encoder
	monitor *power.Monitor

	mu                sync.Mutex
	locationFailures  stats.Statistics
	timeToFirstFixSec stats.Statistics
	positionAccuracyM stats.Statistics
	topFourAvgCn0     stats.Statistics
	constellations    [ConstellationCount]bool
	logStart          string
}

// New creates an Aggregator reporting signal quality to the given battery
// sink (which may be nil) and encoding summaries with enc.
func New(battery power.BatteryStats, clock platform.Clock, props platform.Properties, enc Encoder, logger *zap.Logger) *Aggregator {
	a := &Aggregator{
		logger:  logger,
		clock:   clock,
		props:   props,
		encoder: enc,
		monitor: power.NewMonitor(battery, logger.Named("power")),
	}
	a.mu.Lock()
	a.resetLocked()
	a.mu.Unlock()
	return a
}

// RecordFixOutcome logs one processed location report: a failed fix adds a
// failure sample of 1.0, a successful one adds 0.0.
func (a *Aggregator) RecordFixOutcome(success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if success {
		a.locationFailures.AddItem(0.0)
		return
	}
	a.locationFailures.AddItem(1.0)
}

// RecordMissedFixes derives how many reports never arrived from the gap
// between the desired and actual fix intervals and logs each as a failure.
// Integer division truncates.
func (a *Aggregator) RecordMissedFixes(desiredIntervalMs, actualIntervalMs int) {
	missed := actualIntervalMs/max(defaultTimeBetweenFixesMs, desiredIntervalMs) - 1
	if missed <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < missed; i++ {
		a.locationFailures.AddItem(1.0)
	}
}

// RecordTimeToFirstFix logs a TTFF sample in whole seconds (truncated).
func (a *Aggregator) RecordTimeToFirstFix(ms int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeToFirstFixSec.AddItem(float64(ms / 1000))
}

// RecordPositionAccuracy logs one position-accuracy sample in meters.
func (a *Aggregator) RecordPositionAccuracy(meters float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.positionAccuracyM.AddItem(float64(meters))
}

// RecordSignalStrengths ingests per-satellite CN0 readings. The signal
// quality monitor sees every sample (including "no satellites"); the top-4
// average statistic only gains a sample when at least four satellites are
// visible and the 4th-highest reading is above zero, keeping placeholder
// readings out of the long-run average.
func (a *Aggregator) RecordSignalStrengths(cn0s []float32, numSv int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if numSv <= 0 || len(cn0s) == 0 || len(cn0s) < numSv {
		a.monitor.ReportSample(nil, 0)
		return
	}

	sorted := make([]float64, numSv)
	for i := 0; i < numSv; i++ {
		sorted[i] = float64(cn0s[i])
	}
	sort.Float64s(sorted)
	a.monitor.ReportSample(sorted, numSv)

	if numSv < 4 {
		return
	}
	if sorted[numSv-4] > 0.0 {
		top4 := 0.0
		for i := numSv - 4; i < numSv; i++ {
			top4 += sorted[i]
		}
		a.topFourAvgCn0.AddItem(top4 / 4)
	}
}

// RecordConstellationObserved marks a constellation type as used in a fix.
// Out-of-range ordinals are logged and ignored.
func (a *Aggregator) RecordConstellationObserved(ordinal int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ordinal < 0 || ordinal >= ConstellationCount {
		a.logger.Error("Constellation type is not valid", zap.Int("ordinal", ordinal))
		return
	}
	a.constellations[ordinal] = true
}

// ExportAndReset encodes the current interval's snapshot and starts a new
// interval. The reset happens whether or not encoding succeeded; a failed
// export must not leak samples into the next interval. The signal-quality
// monitor's state survives, it tracks the live receiver rather than the
// reporting window.
func (a *Aggregator) ExportAndReset() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := a.snapshotLocked()
	publishGauges(snap)
	encoded, err := a.encoder.Encode(snap)
	a.resetLocked()
	if err != nil {
		exportFailuresTotal.Inc()
		return "", err
	}
	exportsTotal.Inc()
	return encoded, nil
}

// Snapshot returns the current interval's aggregate state without
// resetting anything, for diagnostics.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Aggregator) snapshotLocked() Snapshot {
	snap := Snapshot{
		IntervalStart:     a.logStart,
		IntervalEnd:       a.clock.ElapsedRealtime().String(),
		LocationFailures:  summarize(&a.locationFailures),
		TimeToFirstFixSec: summarize(&a.timeToFirstFixSec),
		PositionAccuracyM: summarize(&a.positionAccuracyM),
		TopFourAvgCn0DbHz: summarize(&a.topFourAvgCn0),
		HardwareRevision:  a.props.Get(HardwareRevisionKey, ""),
	}
	for i, seen := range a.constellations {
		if seen {
			snap.ConstellationsObserved = append(snap.ConstellationsObserved, ConstellationName(i))
		}
	}
	// Battery stats are queried fresh at snapshot time, never cached.
	if bs, ok := a.monitor.BatteryStats(); ok {
		snap.Power = &PowerSummary{
			LoggingDurationMs: bs.LoggingDurationMs,
			EnergyConsumedMah: float64(bs.EnergyConsumedMaMs) / millisPerHour,
			TimeInLevelMs:     bs.TimeInLevelMs[:],
		}
	}
	return snap
}

func (a *Aggregator) resetLocked() {
	a.logStart = a.clock.ElapsedRealtime().String()
	a.locationFailures.Reset()
	a.timeToFirstFixSec.Reset()
	a.positionAccuracyM.Reset()
	a.topFourAvgCn0.Reset()
	a.constellations = [ConstellationCount]bool{}
}

func summarize(s *stats.Statistics) *StatSummary {
	if s.Count() == 0 {
		return nil
	}
	return &StatSummary{
		Count:  s.Count(),
		Mean:   s.Mean(),
		StdDev: s.StandardDeviation(),
	}
}
