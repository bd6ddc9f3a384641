package gnssmetrics

import (
	"fmt"
	"strings"

	"github.com/sanspareilsmyn/gnsslens/internal/power"
)

const minuteMs = 60 * 1000

// DumpAsText renders the current interval as a human-readable KPI block.
// Unlike ExportAndReset it leaves all state untouched: it is a read-only
// diagnostic view.
func (a *Aggregator) DumpAsText() string {
	snap := a.Snapshot()

	var b strings.Builder
	b.WriteString("GNSS_KPI_START\n")
	fmt.Fprintf(&b, "  KPI logging start time: %s\n", snap.IntervalStart)
	fmt.Fprintf(&b, "  KPI logging end time: %s\n", snap.IntervalEnd)

	fmt.Fprintf(&b, "  Number of location reports: %d\n", summaryCount(snap.LocationFailures))
	if snap.LocationFailures != nil {
		fmt.Fprintf(&b, "  Percentage location failure: %v\n", 100.0*snap.LocationFailures.Mean)
	}
	fmt.Fprintf(&b, "  Number of TTFF reports: %d\n", summaryCount(snap.TimeToFirstFixSec))
	if snap.TimeToFirstFixSec != nil {
		fmt.Fprintf(&b, "  TTFF mean (sec): %v\n", snap.TimeToFirstFixSec.Mean)
		fmt.Fprintf(&b, "  TTFF standard deviation (sec): %v\n", snap.TimeToFirstFixSec.StdDev)
	}
	fmt.Fprintf(&b, "  Number of position accuracy reports: %d\n", summaryCount(snap.PositionAccuracyM))
	if snap.PositionAccuracyM != nil {
		fmt.Fprintf(&b, "  Position accuracy mean (m): %v\n", snap.PositionAccuracyM.Mean)
		fmt.Fprintf(&b, "  Position accuracy standard deviation (m): %v\n", snap.PositionAccuracyM.StdDev)
	}
	fmt.Fprintf(&b, "  Number of CN0 reports: %d\n", summaryCount(snap.TopFourAvgCn0DbHz))
	if snap.TopFourAvgCn0DbHz != nil {
		fmt.Fprintf(&b, "  Top 4 Avg CN0 mean (dB-Hz): %v\n", snap.TopFourAvgCn0DbHz.Mean)
		fmt.Fprintf(&b, "  Top 4 Avg CN0 standard deviation (dB-Hz): %v\n", snap.TopFourAvgCn0DbHz.StdDev)
	}
	fmt.Fprintf(&b, "  Used-in-fix constellation types: %s\n", strings.Join(snap.ConstellationsObserved, " "))
	b.WriteString("GNSS_KPI_END\n")

	if snap.Power != nil {
		b.WriteString("Power Metrics\n")
		fmt.Fprintf(&b, "  Time on battery (min): %v\n", float64(snap.Power.LoggingDurationMs)/minuteMs)
		if len(snap.Power.TimeInLevelMs) == power.NumLevels {
			fmt.Fprintf(&b, "  Amount of time (while on battery) Top 4 Avg CN0 > %v dB-Hz (min): %v\n",
				power.PoorThresholdDbHz, float64(snap.Power.TimeInLevelMs[power.LevelGood])/minuteMs)
			fmt.Fprintf(&b, "  Amount of time (while on battery) Top 4 Avg CN0 <= %v dB-Hz (min): %v\n",
				power.PoorThresholdDbHz, float64(snap.Power.TimeInLevelMs[power.LevelPoor])/minuteMs)
		}
		fmt.Fprintf(&b, "  Energy consumed while on battery (mAh): %v\n", snap.Power.EnergyConsumedMah)
	}
	fmt.Fprintf(&b, "Hardware Version: %s\n", snap.HardwareRevision)
	return b.String()
}

func summaryCount(s *StatSummary) int64 {
	if s == nil {
		return 0
	}
	return s.Count
}
