package power

import (
	"fmt"
	"sync"
	"time"

	"github.com/sanspareilsmyn/gnsslens/internal/platform"
)

// Accountant is an in-process BatteryStats implementation. It attributes
// elapsed time to the current signal-quality level and charges energy at a
// fixed drain rate for as long as accounting runs. It stands in for a
// platform battery service and is safe for concurrent use.
type Accountant struct {
	clock   platform.Clock
	drainMa float64

	mu          sync.Mutex
	start       time.Duration
	level       Level
	levelSince  time.Duration
	timeInLevel [NumLevels]int64
}

// NewAccountant starts accounting at the clock's current elapsed realtime.
// drainMa is the assumed GNSS receiver draw in milliamps.
func NewAccountant(clock platform.Clock, drainMa float64) *Accountant {
	now := clock.ElapsedRealtime()
	return &Accountant{
		clock:      clock,
		drainMa:    drainMa,
		start:      now,
		level:      LevelUnknown,
		levelSince: now,
	}
}

// NoteSignalQuality closes out time spent at the previous level and starts
// attributing to the new one.
func (a *Accountant) NoteSignalQuality(level Level) error {
	if level < LevelPoor || level >= NumLevels {
		return fmt.Errorf("signal quality level %d out of range", level)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.ElapsedRealtime()
	a.accumulateLocked(now)
	a.level = level
	a.levelSince = now
	return nil
}

// GetStats returns the accounting snapshot, with the current level's open
// interval folded in.
func (a *Accountant) GetStats() (Stats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.ElapsedRealtime()
	loggingMs := (now - a.start).Milliseconds()

	timeInLevel := a.timeInLevel
	if a.level != LevelUnknown {
		timeInLevel[a.level] += (now - a.levelSince).Milliseconds()
	}

	return Stats{
		LoggingDurationMs:  loggingMs,
		EnergyConsumedMaMs: int64(a.drainMa * float64(loggingMs)),
		TimeInLevelMs:      timeInLevel,
	}, nil
}

// accumulateLocked charges the interval since levelSince to the current
// level. Time spent at LevelUnknown is not attributed anywhere.
func (a *Accountant) accumulateLocked(now time.Duration) {
	if a.level != LevelUnknown {
		a.timeInLevel[a.level] += (now - a.levelSince).Milliseconds()
	}
}
