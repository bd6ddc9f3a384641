package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/gnssmetrics"
)

// summaryPublisher is what the exporter needs from a Publisher.
type summaryPublisher interface {
	Publish(ctx context.Context, encoded string) error
}

// Exporter triggers the aggregator's export-and-reset on a fixed interval
// and hands the encoded summary to the publisher. The aggregator itself
// runs no timers; this component owns the reporting cadence.
type Exporter struct {
	interval  time.Duration
	agg       *gnssmetrics.Aggregator
	publisher summaryPublisher // nil disables publishing
	logger    *zap.Logger
}

// NewExporter creates an Exporter with the given reporting interval.
func NewExporter(interval time.Duration, agg *gnssmetrics.Aggregator, publisher summaryPublisher, logger *zap.Logger) *Exporter {
	return &Exporter{
		interval:  interval,
		agg:       agg,
		publisher: publisher,
		logger:    logger,
	}
}

// Run exports on every tick until the context ends; a final export runs at
// shutdown so the trailing partial interval is not lost.
func (e *Exporter) Run(ctx context.Context) error {
	sugar := e.logger.Sugar()
	sugar.Infow("Starting exporter loop...", "interval", e.interval)
	defer sugar.Info("Exporter loop stopped.")

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.export(ctx)

		case <-ctx.Done():
			// Best-effort final export; the parent context is done, so
			// give the publish a short grace window.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			e.export(flushCtx)
			cancel()
			return ctx.Err()
		}
	}
}

func (e *Exporter) export(ctx context.Context) {
	encoded, err := e.agg.ExportAndReset()
	if err != nil {
		// The aggregator already reset; nothing to publish this interval.
		e.logger.Warn("Summary export failed", zap.Error(err))
		return
	}
	e.logger.Debug("Summary exported", zap.Int("encoded_len", len(encoded)))

	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, encoded); err != nil {
		e.logger.Warn("Failed to publish summary, dropping", zap.Error(err))
	}
}
