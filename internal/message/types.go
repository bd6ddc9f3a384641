package message

// Kind discriminates measurement events on the ingestion topic.
type Kind string

const (
	KindFixOutcome      Kind = "fix_outcome"
	KindMissedFixes     Kind = "missed_fixes"
	KindTimeToFirstFix  Kind = "time_to_first_fix"
	KindAccuracy        Kind = "position_accuracy"
	KindSignalStrengths Kind = "signal_strengths"
	KindConstellation   Kind = "constellation"
)

// Measurement is one positioning-subsystem event. Kind selects which of the
// payload fields are meaningful; the rest stay at their zero values.
type Measurement struct {
	Kind Kind `json:"kind"`

	// fix_outcome
	Success bool `json:"success,omitempty"`

	// missed_fixes
	DesiredIntervalMs int `json:"desiredIntervalMs,omitempty"`
	ActualIntervalMs  int `json:"actualIntervalMs,omitempty"`

	// time_to_first_fix
	TimeToFirstFixMs int `json:"timeToFirstFixMs,omitempty"`

	// position_accuracy
	AccuracyMeters float32 `json:"accuracyMeters,omitempty"`

	// signal_strengths
	Cn0DbHz []float32 `json:"cn0DbHz,omitempty"`
	SvCount int       `json:"svCount,omitempty"`

	// constellation
	ConstellationType int `json:"constellationType,omitempty"`
}

var knownKinds = map[Kind]struct{}{
	KindFixOutcome:      {},
	KindMissedFixes:     {},
	KindTimeToFirstFix:  {},
	KindAccuracy:        {},
	KindSignalStrengths: {},
	KindConstellation:   {},
}
