package gnssmetrics

// StatSummary is the exported view of one running statistic. It is only
// present in a Snapshot when at least one sample was recorded.
type StatSummary struct {
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// PowerSummary carries the battery-accounting state captured at export time.
type PowerSummary struct {
	LoggingDurationMs int64   `json:"loggingDurationMs"`
	EnergyConsumedMah float64 `json:"energyConsumedMah"`
	TimeInLevelMs     []int64 `json:"timeInLevelMs"`
}

// Snapshot is the aggregate state of one reporting interval, handed to the
// Encoder for transport.
type Snapshot struct {
	IntervalStart string `json:"intervalStart"`
	IntervalEnd   string `json:"intervalEnd"`

	LocationFailures  *StatSummary `json:"locationFailures,omitempty"`
	TimeToFirstFixSec *StatSummary `json:"timeToFirstFixSec,omitempty"`
	PositionAccuracyM *StatSummary `json:"positionAccuracyMeters,omitempty"`
	TopFourAvgCn0DbHz *StatSummary `json:"topFourAvgCn0DbHz,omitempty"`

	ConstellationsObserved []string `json:"constellationsObserved,omitempty"`

	Power            *PowerSummary `json:"power,omitempty"`
	HardwareRevision string        `json:"hardwareRevision,omitempty"`
}
