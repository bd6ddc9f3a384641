package power

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) ElapsedRealtime() time.Duration {
	return c.now
}

func TestAccountantAttributesTimeToLevels(t *testing.T) {
	clock := &fakeClock{now: 10 * time.Second}
	a := NewAccountant(clock, 40.0)

	clock.now = 12 * time.Second
	assert.NoError(t, a.NoteSignalQuality(LevelPoor))

	clock.now = 15 * time.Second
	assert.NoError(t, a.NoteSignalQuality(LevelGood))

	clock.now = 20 * time.Second
	got, err := a.GetStats()
	assert.NoError(t, err)

	assert.Equal(t, int64(10000), got.LoggingDurationMs)
	assert.Equal(t, int64(40*10000), got.EnergyConsumedMaMs)
	// 2s unknown (unattributed), 3s poor, 5s good (open interval).
	assert.Equal(t, int64(3000), got.TimeInLevelMs[LevelPoor])
	assert.Equal(t, int64(5000), got.TimeInLevelMs[LevelGood])
}

func TestAccountantRejectsOutOfRangeLevel(t *testing.T) {
	a := NewAccountant(&fakeClock{}, 40.0)
	assert.Error(t, a.NoteSignalQuality(LevelUnknown))
	assert.Error(t, a.NoteSignalQuality(Level(2)))
}

func TestAccountantGetStatsIsRepeatable(t *testing.T) {
	clock := &fakeClock{}
	a := NewAccountant(clock, 40.0)
	assert.NoError(t, a.NoteSignalQuality(LevelGood))

	clock.now = 4 * time.Second
	first, err := a.GetStats()
	assert.NoError(t, err)
	second, err := a.GetStats()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
