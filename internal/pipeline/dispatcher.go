package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/gnssmetrics"
	"github.com/sanspareilsmyn/gnsslens/internal/message"
)

// Dispatcher routes parsed measurement events to the matching aggregator
// ingestion method, one call per event.
type Dispatcher struct {
	agg    *gnssmetrics.Aggregator
	input  <-chan message.Measurement
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher feeding the given aggregator.
func NewDispatcher(agg *gnssmetrics.Aggregator, input <-chan message.Measurement, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		agg:    agg,
		input:  input,
		logger: logger,
	}
}

// Run consumes measurements until the input closes or the context ends.
func (d *Dispatcher) Run(ctx context.Context) error {
	sugar := d.logger.Sugar()
	sugar.Info("Starting dispatcher loop...")
	defer sugar.Info("Dispatcher loop stopped.")

	for {
		select {
		case m, ok := <-d.input:
			if !ok {
				sugar.Info("Dispatcher input channel closed.")
				return nil
			}
			d.dispatch(m)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Dispatcher) dispatch(m message.Measurement) {
	switch m.Kind {
	case message.KindFixOutcome:
		d.agg.RecordFixOutcome(m.Success)
	case message.KindMissedFixes:
		d.agg.RecordMissedFixes(m.DesiredIntervalMs, m.ActualIntervalMs)
	case message.KindTimeToFirstFix:
		d.agg.RecordTimeToFirstFix(m.TimeToFirstFixMs)
	case message.KindAccuracy:
		d.agg.RecordPositionAccuracy(m.AccuracyMeters)
	case message.KindSignalStrengths:
		d.agg.RecordSignalStrengths(m.Cn0DbHz, m.SvCount)
	case message.KindConstellation:
		d.agg.RecordConstellationObserved(m.ConstellationType)
	default:
		// The parser rejects unknown kinds; this is unreachable unless
		// a new kind is added without a dispatch arm.
		d.logger.Warn("No dispatch arm for measurement kind", zap.String("kind", string(m.Kind)))
	}
}
