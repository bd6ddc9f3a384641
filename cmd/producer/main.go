package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sanspareilsmyn/gnsslens/internal/gnssmetrics"
	"github.com/sanspareilsmyn/gnsslens/internal/message"
)

const (
	kafkaBroker = "localhost:9092"
	topic       = "gnss-measurements"
)

func main() {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Fatalf("Error closing kafka writer: %v", err)
		}
	}()
	log.Printf("Starting sample GNSS producer for topic: %s on broker: %s", topic, kafkaBroker)

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		log.Println("Shutdown signal received, stopping producer...")
		cancel()
	}()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-ticker.C:
			m := generateMeasurement(rng)
			raw, err := json.Marshal(m)
			if err != nil {
				log.Printf("Error marshalling measurement: %v", err)
				continue
			}

			if err := writer.WriteMessages(ctx, kafka.Message{Value: raw}); err != nil {
				if ctx.Err() != nil {
					log.Println("Context cancelled, exiting message loop.")
					return
				}
				log.Printf("Error writing measurement: %v", err)
			} else {
				log.Printf("Produced measurement: %s", string(raw))
			}

		case <-ctx.Done():
			log.Println("Producer loop stopped.")
			return
		}
	}
}

// generateMeasurement emits a plausible mix of positioning events: mostly
// fix outcomes with signal strengths, occasional TTFF, accuracy and
// constellation reports, and a rare missed-fix gap.
func generateMeasurement(rng *rand.Rand) message.Measurement {
	switch r := rng.Float64(); {
	case r < 0.40:
		// ~8% of fixes fail
		return message.Measurement{
			Kind:    message.KindFixOutcome,
			Success: rng.Float64() > 0.08,
		}

	case r < 0.70:
		numSv := 2 + rng.Intn(10)
		cn0s := make([]float32, numSv)
		base := 15.0 + rng.Float64()*20.0 // urban canyon to open sky
		for i := range cn0s {
			cn0s[i] = float32(base + rng.NormFloat64()*4.0)
		}
		return message.Measurement{
			Kind:    message.KindSignalStrengths,
			Cn0DbHz: cn0s,
			SvCount: numSv,
		}

	case r < 0.80:
		return message.Measurement{
			Kind:             message.KindTimeToFirstFix,
			TimeToFirstFixMs: 1000 + rng.Intn(60000),
		}

	case r < 0.90:
		return message.Measurement{
			Kind:           message.KindAccuracy,
			AccuracyMeters: float32(1.0 + rng.Float64()*25.0),
		}

	case r < 0.97:
		return message.Measurement{
			Kind:              message.KindConstellation,
			ConstellationType: rng.Intn(gnssmetrics.ConstellationCount),
		}

	default:
		return message.Measurement{
			Kind:              message.KindMissedFixes,
			DesiredIntervalMs: 1000,
			ActualIntervalMs:  1000 * (2 + rng.Intn(4)),
		}
	}
}
