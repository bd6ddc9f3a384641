package gnssmetrics

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/power"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) ElapsedRealtime() time.Duration {
	return c.now
}

type fakeProps map[string]string

func (p fakeProps) Get(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

type fakeBattery struct {
	noted  []power.Level
	stats  power.Stats
	getErr error
}

func (b *fakeBattery) NoteSignalQuality(level power.Level) error {
	b.noted = append(b.noted, level)
	return nil
}

func (b *fakeBattery) GetStats() (power.Stats, error) {
	return b.stats, b.getErr
}

type failingEncoder struct{}

func (failingEncoder) Encode(Snapshot) (string, error) {
	return "", errors.New("encoder down")
}

func newTestAggregator(battery power.BatteryStats) (*Aggregator, *fakeClock) {
	clock := &fakeClock{}
	props := fakeProps{HardwareRevisionKey: "rev-c2"}
	return New(battery, clock, props, NewJSONEncoder(), zap.NewNop()), clock
}

func decodeSummary(t *testing.T, encoded string) Snapshot {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	return snap
}

func TestRecordFixOutcome(t *testing.T) {
	a, _ := newTestAggregator(nil)
	a.RecordFixOutcome(true)
	a.RecordFixOutcome(false)
	a.RecordFixOutcome(true)
	a.RecordFixOutcome(true)

	assert.Equal(t, int64(4), a.locationFailures.Count())
	assert.InDelta(t, 0.25, a.locationFailures.Mean(), 1e-12)
}

func TestRecordMissedFixes(t *testing.T) {
	a, _ := newTestAggregator(nil)

	// 3500/1000 - 1 = 2 missed reports, each a failure sample of 1.0.
	a.RecordMissedFixes(1000, 3500)
	assert.Equal(t, int64(2), a.locationFailures.Count())
	assert.InDelta(t, 1.0, a.locationFailures.Mean(), 1e-12)

	// Desired interval below the floor is clamped to 1000 ms.
	a.RecordMissedFixes(1, 2000)
	assert.Equal(t, int64(3), a.locationFailures.Count())

	// No gap, no samples.
	a.RecordMissedFixes(5000, 5000)
	assert.Equal(t, int64(3), a.locationFailures.Count())
}

func TestRecordTimeToFirstFixTruncatesToSeconds(t *testing.T) {
	a, _ := newTestAggregator(nil)
	a.RecordTimeToFirstFix(2700)
	assert.Equal(t, int64(1), a.timeToFirstFixSec.Count())
	assert.InDelta(t, 2.0, a.timeToFirstFixSec.Mean(), 1e-12)
}

func TestRecordSignalStrengths(t *testing.T) {
	battery := &fakeBattery{}
	a, _ := newTestAggregator(battery)

	a.RecordSignalStrengths([]float32{10, 12, 15, 18, 22}, 5)

	// Top 4 of the sorted readings are 12 15 18 22, averaging 16.75.
	assert.Equal(t, int64(1), a.topFourAvgCn0.Count())
	assert.InDelta(t, 16.75, a.topFourAvgCn0.Mean(), 1e-9)
	assert.Equal(t, []power.Level{power.LevelPoor}, battery.noted)
}

func TestRecordSignalStrengthsFewerThanFourSatellites(t *testing.T) {
	battery := &fakeBattery{}
	a, _ := newTestAggregator(battery)

	a.RecordSignalStrengths([]float32{30, 28}, 2)

	// The monitor sees the sample but the top-4 statistic stays empty.
	assert.Equal(t, int64(0), a.topFourAvgCn0.Count())
	assert.Equal(t, []power.Level{power.LevelGood}, battery.noted)
}

func TestRecordSignalStrengthsPlaceholderReadings(t *testing.T) {
	a, _ := newTestAggregator(nil)

	// 4th-highest reading is zero: a placeholder, kept out of the average.
	a.RecordSignalStrengths([]float32{0, 0, 25, 26, 27}, 5)
	assert.Equal(t, int64(0), a.topFourAvgCn0.Count())
}

func TestRecordSignalStrengthsInvalidInput(t *testing.T) {
	battery := &fakeBattery{}
	a, _ := newTestAggregator(battery)

	// numSv beyond the slice and an empty sample both degrade to a
	// zero-count report to the monitor.
	a.RecordSignalStrengths([]float32{20}, 5)
	a.RecordSignalStrengths(nil, 0)

	assert.Equal(t, int64(0), a.topFourAvgCn0.Count())
	// First invalid call reports average 0 (poor); the second is debounced.
	assert.Equal(t, []power.Level{power.LevelPoor}, battery.noted)
}

func TestRecordConstellationObserved(t *testing.T) {
	a, _ := newTestAggregator(nil)

	a.RecordConstellationObserved(ConstellationGPS)
	a.RecordConstellationObserved(ConstellationGPS)
	a.RecordConstellationObserved(ConstellationGalileo)
	a.RecordConstellationObserved(-1)
	a.RecordConstellationObserved(ConstellationCount)

	snap := a.Snapshot()
	assert.Equal(t, []string{"GPS", "GALILEO"}, snap.ConstellationsObserved)
}

func TestExportAndReset(t *testing.T) {
	battery := &fakeBattery{stats: power.Stats{
		LoggingDurationMs:  90000,
		EnergyConsumedMaMs: 3600 * 1000 * 5, // 5 mAh
		TimeInLevelMs:      [power.NumLevels]int64{60000, 30000},
	}}
	a, clock := newTestAggregator(battery)

	a.RecordFixOutcome(false)
	a.RecordFixOutcome(true)
	a.RecordTimeToFirstFix(32000)
	a.RecordPositionAccuracy(7.5)
	a.RecordSignalStrengths([]float32{21, 22, 23, 24}, 4)
	a.RecordConstellationObserved(ConstellationGlonass)

	clock.now = 2 * time.Minute
	encoded, err := a.ExportAndReset()
	require.NoError(t, err)

	snap := decodeSummary(t, encoded)
	require.NotNil(t, snap.LocationFailures)
	assert.Equal(t, int64(2), snap.LocationFailures.Count)
	assert.InDelta(t, 0.5, snap.LocationFailures.Mean, 1e-12)
	require.NotNil(t, snap.TimeToFirstFixSec)
	assert.InDelta(t, 32.0, snap.TimeToFirstFixSec.Mean, 1e-12)
	require.NotNil(t, snap.PositionAccuracyM)
	assert.InDelta(t, 7.5, snap.PositionAccuracyM.Mean, 1e-9)
	require.NotNil(t, snap.TopFourAvgCn0DbHz)
	assert.InDelta(t, 22.5, snap.TopFourAvgCn0DbHz.Mean, 1e-9)
	assert.Equal(t, []string{"GLONASS"}, snap.ConstellationsObserved)
	assert.Equal(t, "rev-c2", snap.HardwareRevision)
	require.NotNil(t, snap.Power)
	assert.Equal(t, int64(90000), snap.Power.LoggingDurationMs)
	assert.InDelta(t, 5.0, snap.Power.EnergyConsumedMah, 1e-9)
	assert.Equal(t, []int64{60000, 30000}, snap.Power.TimeInLevelMs)

	// Everything windowed is gone; the new interval starts at the clock.
	after := a.Snapshot()
	assert.Nil(t, after.LocationFailures)
	assert.Nil(t, after.TimeToFirstFixSec)
	assert.Nil(t, after.PositionAccuracyM)
	assert.Nil(t, after.TopFourAvgCn0DbHz)
	assert.Empty(t, after.ConstellationsObserved)
	assert.Equal(t, (2 * time.Minute).String(), after.IntervalStart)
}

func TestExportAndResetMonitorStateSurvives(t *testing.T) {
	battery := &fakeBattery{}
	a, _ := newTestAggregator(battery)

	a.RecordSignalStrengths([]float32{25, 25, 25, 25}, 4)
	require.Len(t, battery.noted, 1)

	_, err := a.ExportAndReset()
	require.NoError(t, err)

	// Within the debounce threshold of the pre-export average: still
	// suppressed, proving the monitor was not reset.
	a.RecordSignalStrengths([]float32{25.5, 25.5, 25.5, 25.5}, 4)
	assert.Len(t, battery.noted, 1)
}

func TestExportAndResetResetsOnEncodeFailure(t *testing.T) {
	clock := &fakeClock{}
	a := New(nil, clock, fakeProps{}, failingEncoder{}, zap.NewNop())
	a.RecordFixOutcome(false)

	_, err := a.ExportAndReset()
	assert.Error(t, err)

	// The failed export must not leak samples into the next interval.
	assert.Equal(t, int64(0), a.locationFailures.Count())
}

func TestExportAndResetBatteryQueryFailureOmitsPower(t *testing.T) {
	battery := &fakeBattery{getErr: errors.New("unavailable")}
	a, _ := newTestAggregator(battery)
	a.RecordFixOutcome(true)

	encoded, err := a.ExportAndReset()
	require.NoError(t, err)

	snap := decodeSummary(t, encoded)
	assert.Nil(t, snap.Power)
	assert.Equal(t, int64(0), a.locationFailures.Count())
}

func TestDumpAsTextDoesNotReset(t *testing.T) {
	a, _ := newTestAggregator(nil)
	a.RecordFixOutcome(false)
	a.RecordConstellationObserved(ConstellationBeidou)

	text := a.DumpAsText()
	assert.Contains(t, text, "GNSS_KPI_START")
	assert.Contains(t, text, "GNSS_KPI_END")
	assert.Contains(t, text, "Number of location reports: 1")
	assert.Contains(t, text, "Percentage location failure: 100")
	assert.Contains(t, text, "BEIDOU")

	assert.Equal(t, int64(1), a.locationFailures.Count())
}
