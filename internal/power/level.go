// Package power holds the signal-quality classification that drives GNSS
// energy accounting: a debounced top-4 CN0 monitor and the battery-stats
// sink it reports to.
package power

// Level is a coarse GNSS signal-quality classification derived from the
// top-4 average carrier-to-noise density.
type Level int

const (
	// LevelUnknown is the initial state before any sample passed the
	// reporting gate. It is never re-entered.
	LevelUnknown Level = iota - 1
	LevelPoor
	LevelGood
)

// NumLevels counts the reportable levels (Unknown excluded); battery stats
// track time-in-level per reportable level.
const NumLevels = 2

func (l Level) String() string {
	switch l {
	case LevelPoor:
		return "poor"
	case LevelGood:
		return "good"
	default:
		return "unknown"
	}
}
