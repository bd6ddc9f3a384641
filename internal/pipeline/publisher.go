package pipeline

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/config"
)

// Publisher writes encoded summaries to the output topic, best effort.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher creates a Publisher, or nil when no output topic is
// configured (publishing disabled).
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) *Publisher {
	if cfg.OutTopic == "" {
		logger.Info("No output topic configured, summary publishing disabled")
		return nil
	}
	w := &kafka.Writer{
		Addr:        kafka.TCP(cfg.Brokers...),
		Topic:       cfg.OutTopic,
		Balancer:    &kafka.LeastBytes{},
		Logger:      kafkaZapLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger: kafkaZapErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}
	logger.Info("Summary publisher created",
		zap.String("topic", cfg.OutTopic),
		zap.Strings("brokers", cfg.Brokers),
	)
	return &Publisher{writer: w, logger: logger}
}

// Publish writes one encoded summary. A single attempt; the caller logs
// failures and moves on.
func (p *Publisher) Publish(ctx context.Context, encoded string) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Value: []byte(encoded)})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
