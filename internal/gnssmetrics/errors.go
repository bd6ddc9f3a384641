package gnssmetrics

import "errors"

var (
	ErrEncodeSummary = errors.New("failed to encode metrics summary")
)
