package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal measurement JSON")
	ErrUnknownKind         = errors.New("unknown measurement kind")
)

// ParseMeasurement decodes one measurement event from a raw topic payload.
// Unknown kinds are rejected so malformed producers surface in the logs
// instead of silently dispatching zero-valued events.
func ParseMeasurement(data []byte) (Measurement, error) {
	var m Measurement
	if err := json.Unmarshal(data, &m); err != nil {
		return Measurement{}, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	if _, ok := knownKinds[m.Kind]; !ok {
		return Measurement{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	return m, nil
}
