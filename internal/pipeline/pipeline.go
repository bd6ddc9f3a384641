package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/config"
	"github.com/sanspareilsmyn/gnsslens/internal/gnssmetrics"
	"github.com/sanspareilsmyn/gnsslens/internal/message"
)

// measurementSource is what Run needs from the consumer stage.
type measurementSource interface {
	Run(ctx context.Context) error
}

// Pipeline wires the stages together: consumer -> parser -> dispatcher,
// with the exporter running on its own cadence beside them.
type Pipeline struct {
	consumer   measurementSource
	dispatcher *Dispatcher
	exporter   *Exporter
	publisher  *Publisher
	logger     *zap.Logger

	rawMessages  chan []byte
	measurements chan message.Measurement
}

// New creates and wires up the ingestion pipeline around the aggregator.
func New(cfg *config.Config, agg *gnssmetrics.Aggregator, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")

	const channelBufferSize = 100
	rawMessages := make(chan []byte, channelBufferSize)
	measurements := make(chan message.Measurement, channelBufferSize)

	consumer, err := NewConsumer(cfg.Kafka, rawMessages, logger.Named("consumer"))
	if err != nil {
		initLogger.Error("Failed to create consumer", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConsumerCreationFailed, err)
	}

	dispatcher := NewDispatcher(agg, measurements, logger.Named("dispatcher"))

	publisher := NewPublisher(cfg.Kafka, logger.Named("publisher"))
	var sink summaryPublisher
	if publisher != nil {
		sink = publisher
	}
	exporter := NewExporter(cfg.Pipeline.ExportInterval, agg, sink, logger.Named("exporter"))

	initLogger.Info("Pipeline instance created successfully")
	return &Pipeline{
		consumer:     consumer,
		dispatcher:   dispatcher,
		exporter:     exporter,
		publisher:    publisher,
		logger:       logger.Named("pipeline"),
		rawMessages:  rawMessages,
		measurements: measurements,
	}, nil
}

// Run starts all components and blocks until they finish or the context is
// cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	var wg sync.WaitGroup
	pipelineErr := make(chan error, 4) // consumer, parser, dispatcher, exporter

	// A component error must stop the others too; the exporter in
	// particular only exits via context cancellation, not channel closes.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sugar.Info("Pipeline Run: Starting components...")

	wg.Add(4)
	go p.runConsumer(ctx, &wg, pipelineErr)
	go p.runParser(ctx, &wg)
	go p.runDispatcher(ctx, &wg, pipelineErr)
	go p.runExporter(ctx, &wg, pipelineErr)

	var firstErr error
	select {
	case <-ctx.Done():
		sugar.Info("Pipeline Run: Context cancelled. Waiting for components to finish...")
		firstErr = ctx.Err()
	case err := <-pipelineErr:
		sugar.Errorw("Pipeline Run: Received error from a component, initiating shutdown...", zap.Error(err))
		firstErr = err
	}

	cancel()
	wg.Wait()
	sugar.Info("Pipeline Run: All components finished.")

	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			sugar.Warnw("Failed to close summary publisher", zap.Error(err))
		}
	}

	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		return firstErr
	}
	return nil
}

func (p *Pipeline) runConsumer(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer close(p.rawMessages)

	if err := p.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Consumer component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrConsumerRunFailed, err)
	}
}

// runParser turns raw topic payloads into typed measurements.
func (p *Pipeline) runParser(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(p.measurements)

	parserLogger := p.logger.Named("parser").Sugar()

	for {
		select {
		case raw, ok := <-p.rawMessages:
			if !ok {
				parserLogger.Debug("Parser finished (raw message channel closed).")
				return
			}

			m, err := message.ParseMeasurement(raw)
			if err != nil {
				parserLogger.Warnw("Failed to parse measurement, skipping", zap.Error(err))
				continue
			}

			select {
			case p.measurements <- m:

			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) runDispatcher(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	if err := p.dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Dispatcher component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrDispatcherRunFailed, err)
	}
}

func (p *Pipeline) runExporter(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	if err := p.exporter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Exporter component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrExporterRunFailed, err)
	}
}
