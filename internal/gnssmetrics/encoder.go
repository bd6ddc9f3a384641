package gnssmetrics

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Encoder turns a Snapshot into an opaque transport-safe string. The wire
// format is the encoder's business; the aggregator never inspects it.
type Encoder interface {
	Encode(snap Snapshot) (string, error)
}

type jsonEncoder struct{}

// NewJSONEncoder returns the default Encoder: JSON marshalled and
// base64-wrapped so the result survives any text transport.
func NewJSONEncoder() Encoder {
	return jsonEncoder{}
}

func (jsonEncoder) Encode(snap Snapshot) (string, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeSummary, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
