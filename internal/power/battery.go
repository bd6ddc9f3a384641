package power

// Stats is a snapshot of the GNSS-attributed battery accounting.
type Stats struct {
	// LoggingDurationMs is how long accounting has been running.
	LoggingDurationMs int64
	// EnergyConsumedMaMs is the energy drawn, in milliamp-milliseconds.
	EnergyConsumedMaMs int64
	// TimeInLevelMs is the time spent at each reportable signal-quality
	// level, indexed by Level (Poor, Good).
	TimeInLevelMs [NumLevels]int64
}

// BatteryStats is the external energy-accounting sink. Both calls are
// best effort: callers log failures and continue, they never propagate.
type BatteryStats interface {
	GetStats() (Stats, error)
	NoteSignalQuality(level Level) error
}
